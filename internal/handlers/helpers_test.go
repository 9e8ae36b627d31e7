package handlers

import "testing"

func TestParseUintParam_Valid(t *testing.T) {
	got, err := parseUintParam("123")
	if err != nil {
		t.Fatalf("parseUintParam('123') error: %v", err)
	}
	if got != 123 {
		t.Errorf("parseUintParam('123') = %d, want 123", got)
	}
}

func TestParseUintParam_Negative(t *testing.T) {
	_, err := parseUintParam("-1")
	if err == nil {
		t.Error("parseUintParam('-1') should return error")
	}
}

func TestParseUintParam_NonNumeric(t *testing.T) {
	_, err := parseUintParam("abc")
	if err == nil {
		t.Error("parseUintParam('abc') should return error")
	}
}

func TestParseUintParam_Empty(t *testing.T) {
	_, err := parseUintParam("")
	if err == nil {
		t.Error("parseUintParam('') should return error")
	}
}
