// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"fmt"
	"strings"
)

// Class is the rarity of an item.
type Class uint8

const (
	ClassNone Class = iota
	Common
	Epic
	Legendary
	Apex
)

var classNames = map[Class]string{
	Common:    "common",
	Epic:      "epic",
	Legendary: "legendary",
	Apex:      "apex",
}

// Classes lists every valid class, lowest rarity first.
func Classes() []Class {
	return []Class{Common, Epic, Legendary, Apex}
}

func (c Class) Valid() bool {
	_, ok := classNames[c]
	return ok
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ParseClass parses a class name, case insensitive.
func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range classNames {
		if name == s {
			return c, nil
		}
	}
	return ClassNone, fmt.Errorf("unknown class %q", s)
}
