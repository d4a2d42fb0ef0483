package textnorm

import (
	"reflect"
	"testing"
)

func TestTokensLowercasesAndStripsPunctuation(t *testing.T) {
	got := Tokens("The QUICK, brown; fox-jumps!")
	want := []string{"the", "quick", "brown", "fox", "jumps"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestTokensEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t \n"},
		{"punctuation only", "--- *** ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokens(tt.raw); len(got) != 0 {
				t.Errorf("Tokens(%q) = %v, want empty", tt.raw, got)
			}
		})
	}
}

func TestTokensStripsCopyrightLines(t *testing.T) {
	raw := "Copyright 2019 Example Corp.\n" +
		"(c) The Example Authors\n" +
		"2001, 2002-2004\n" +
		"Permission is hereby granted\n" +
		"free of charge. All Rights Reserved.\n"
	got := Tokens(raw)
	want := []string{"permission", "is", "hereby", "granted"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestTokensFoldsTypography(t *testing.T) {
	smart := Tokens("“software” — provided ‘as is’")
	plain := Tokens(`"software" - provided 'as is'`)
	if !reflect.DeepEqual(smart, plain) {
		t.Errorf("typographic fold mismatch: %v vs %v", smart, plain)
	}
}

func TestTokensDeterministic(t *testing.T) {
	raw := "Permission is hereby granted, free of charge, to any person."
	first := Tokens(raw)
	second := Tokens(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Tokens not deterministic: %v vs %v", first, second)
	}
}

func TestIsCopyrightLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Copyright (c) 2024 Someone", true},
		{"  copyright by the authors", true},
		{"(c) 2020 Example", true},
		{"1999, 2000-2003", true},
		{"All rights reserved.", true},
		{"Permission is hereby granted", false},
		{"THE SOFTWARE IS PROVIDED \"AS IS\"", false},
	}

	for _, tt := range tests {
		if got := IsCopyrightLine(tt.line); got != tt.want {
			t.Errorf("IsCopyrightLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestLinesHandlesCRLF(t *testing.T) {
	got := Lines("one\r\ntwo\nthree")
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
}
