package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// ErrDuplicateOption is returned when an option that may only be given once
// appears more than once.
var ErrDuplicateOption = errors.New("duplicate option")

// onceString is a string flag that refuses to be set twice.
type onceString struct {
	name  string
	value *string
	set   bool
}

func (v *onceString) Set(s string) error {
	if v.set {
		return fmt.Errorf("%w: --%s", ErrDuplicateOption, v.name)
	}
	v.set = true
	*v.value = s
	return nil
}

func (v *onceString) String() string {
	if v.value == nil {
		return ""
	}
	return *v.value
}

func (v *onceString) Type() string { return "string" }

// onceBool is a boolean flag that refuses to be set twice.
type onceBool struct {
	name  string
	value *bool
	set   bool
}

func (v *onceBool) Set(s string) error {
	if v.set {
		return fmt.Errorf("%w: --%s", ErrDuplicateOption, v.name)
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	v.set = true
	*v.value = b
	return nil
}

func (v *onceBool) String() string {
	if v.value == nil {
		return "false"
	}
	return strconv.FormatBool(*v.value)
}

func (v *onceBool) Type() string { return "bool" }

func onceStringVarP(fs *pflag.FlagSet, p *string, name, shorthand, value, usage string) *pflag.Flag {
	*p = value
	return fs.VarPF(&onceString{name: name, value: p}, name, shorthand, usage)
}

func onceBoolVarP(fs *pflag.FlagSet, p *bool, name, shorthand, usage string) *pflag.Flag {
	f := fs.VarPF(&onceBool{name: name, value: p}, name, shorthand, usage)
	f.NoOptDefVal = "true"
	return f
}
