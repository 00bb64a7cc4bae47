// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

type layoutConfig struct {
	Name    string `yaml:"name"`
	Regions []struct {
		Region *Region `yaml:"region"`
		Start  *uint   `yaml:"start"`
		End    *uint   `yaml:"end"`
	} `yaml:"regions"`
}

// LoadLayout parses a YAML layout definition, such as:
//
//	name: stm32h743
//	regions:
//	  - region: SRAM1
//	    start: 0x30000000
//	    end:   0x30020000
//
// Every entry must define region, start and end, unknown keys are rejected.
// Regions not listed are unknown to the returned layout.
func LoadLayout(r io.Reader) (l *Layout, err error) {
	var conf layoutConfig

	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)

	if err = dec.Decode(&conf); err != nil {
		return nil, fmt.Errorf("could not parse layout, %w", err)
	}

	if conf.Name == "" {
		return nil, fmt.Errorf("missing layout name")
	}

	l = &Layout{
		Name:    conf.Name,
		Regions: make(map[Region]Bounds),
	}

	for i, e := range conf.Regions {
		switch {
		case e.Region == nil:
			return nil, fmt.Errorf("%s: entry %d missing region", l.Name, i)
		case e.Start == nil:
			return nil, fmt.Errorf("%s: %s missing start", l.Name, *e.Region)
		case e.End == nil:
			return nil, fmt.Errorf("%s: %s missing end", l.Name, *e.Region)
		}

		if _, ok := l.Regions[*e.Region]; ok {
			return nil, fmt.Errorf("%s: duplicate region %s", l.Name, *e.Region)
		}

		l.Regions[*e.Region] = Bounds{Start: *e.Start, End: *e.End}
	}

	if err = l.Verify(); err != nil {
		return nil, err
	}

	return
}
