// Package paramfile reads Picard parameter files (*.nx).
//
// A parameter file is a list of `name = value value ...` assignments grouped
// into sections by `[Section]` headers. Lines starting with '#' are comments.
// Assignments above the first header belong to the unnamed section.
package paramfile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// NoSection names the section of the assignments above the first header
const NoSection = ""

// Only whole lines are comments; a '#' after a value is kept.
var loadOptions = ini.LoadOptions{IgnoreInlineComment: true}

// File is a parsed parameter file
type File struct {
	name string
	cfg  *ini.File
}

// Load parses the parameter file at path
func Load(path string) (*File, error) {
	cfg, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("error reading parameter file %s: %w", path, err)
	}
	return &File{name: path, cfg: cfg}, nil
}

// Parse parses the contents of a parameter file. name is only used in error
// messages.
func Parse(name string, data []byte) (*File, error) {
	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("error parsing parameter file %s: %w", name, err)
	}
	return &File{name: name, cfg: cfg}, nil
}

// Value returns the value with the given index of a parameter, e.g. index 0
// is the first value after the equal sign.
func (f *File) Value(section, parameter string, index int) (string, error) {
	missing := &MissingParameterError{File: f.name, Section: section, Parameter: parameter, Index: index}

	sec, err := f.cfg.GetSection(section)
	if err != nil {
		return "", missing
	}
	key, err := sec.GetKey(parameter)
	if err != nil {
		return "", missing
	}
	values := strings.Fields(key.String())
	if index < 0 || index >= len(values) {
		return "", missing
	}
	return values[index], nil
}

// Int returns a value converted to an integer
func (f *File) Int(section, parameter string, index int) (int, error) {
	s, err := f.Value(section, parameter, index)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, f.conversionError(section, parameter, s, "an integer")
	}
	return i, nil
}

// Float returns a value converted to a floating-point number
func (f *File) Float(section, parameter string, index int) (float64, error) {
	s, err := f.Value(section, parameter, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, f.conversionError(section, parameter, s, "a floating-point number")
	}
	return v, nil
}

func (f *File) conversionError(section, parameter, value, kind string) error {
	return fmt.Errorf("the parameter '%s' in the section '%s' of the parameter file %s has the value '%s', which cannot be converted to %s",
		parameter, sectionName(section), f.name, value, kind)
}

// MissingParameterError is returned when a parameter file does not contain a
// requested value
type MissingParameterError struct {
	File      string
	Section   string
	Parameter string
	Index     int
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("couldn't find the value with the index %d of the parameter '%s' in the section '%s' in the parameter file %s",
		e.Index, e.Parameter, sectionName(e.Section), e.File)
}

func sectionName(section string) string {
	if section == NoSection {
		return "no_section"
	}
	return section
}
