package main

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
)

// Converted scene files keep original strings as raw bytes in the DOS code
// page so accented text survives the asset conversion untouched.

func decodeCP437(b []byte) string {
	s, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func encodeCP437(s string) []byte {
	b, err := charmap.CodePage437.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// itemDisplayName dresses up an item name for the inventory grid. Scene
// files carry names in lowercase prose form ("bomb with wire").
func itemDisplayName(name string) string {
	return titleCaser.String(name)
}
