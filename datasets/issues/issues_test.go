package issues

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/neurlang/mlsamples/data"
)

func TestLoad(t *testing.T) {
	v, err := Load("testdata/issues.tsv")
	if err != nil {
		t.Fatal(err)
	}
	rows, err := data.ToStructs[GitHubIssue](v)
	if err != nil {
		t.Fatal(err)
	}
	want := []GitHubIssue{
		{ID: "21", Area: "area-System.Net", Title: "WebSockets slow", Description: "The WebSockets communication is slow"},
		{ID: "42", Area: "area-Entity", Title: "EF crash", Description: "When connecting, EF crashes"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}
