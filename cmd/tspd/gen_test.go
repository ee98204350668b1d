package main

import "testing"

func TestAlphaStringRendersIntegralAlphaWithoutDecimals(t *testing.T) {
	if got := alphaString(2); got != "2" {
		t.Errorf("alphaString(2) = %q, want %q", got, "2")
	}
	if got := alphaString(2.5); got != "2.500" {
		t.Errorf("alphaString(2.5) = %q, want %q", got, "2.500")
	}
}

func TestInstanceFilenameIncludesLocationsAndAlpha(t *testing.T) {
	g := &genFlags{Locations: 10, Alpha: 2}
	got := instanceFilename("uniform", 1, g)
	want := "uniform-1-alpha_2-n10.txt"
	if got != want {
		t.Errorf("instanceFilename = %q, want %q", got, want)
	}
}
