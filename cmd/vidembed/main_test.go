package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kiyor/vidembed/pkg/core"
)

func TestResolveCommand(t *testing.T) {
	cfg = core.DefaultConfig()
	cfg.MovieEmbed = "https://m.example/embed/tmdb-movie-{id}"

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"resolve", "/movie/%3Cb%3E"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v (%s)", err, errOut.String())
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output %q: %v", out.String(), err)
	}
	if got["route"] != "movie" {
		t.Errorf("route = %q", got["route"])
	}
	if got["embedUrl"] != "https://m.example/embed/tmdb-movie-%3Cb%3E" {
		t.Errorf("embedUrl = %q", got["embedUrl"])
	}
}

func TestResolveCommand_NotFound(t *testing.T) {
	cfg = core.DefaultConfig()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"resolve", "/movie/"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for an unmatched path")
	}
	if !bytes.Contains(errOut.Bytes(), []byte("route not found")) {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRoutesCommand(t *testing.T) {
	cfg = core.DefaultConfig()
	cfg.MovieEmbed = "https://m.example/embed/tmdb-movie-{id}"
	cfg.TVEmbed = "https://t.example/embed/tv/{id}/{season}/{episode}"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"routes"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v (%s)", err, out.String())
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 routes:\n%s", len(lines), out.String())
	}
	for i, want := range []string{
		"NAME",
		"movie  /movie/:id  https://m.example/embed/tmdb-movie-{id}",
		"tv     /tv/:id/:season/:episode  https://t.example/embed/tv/{id}/{season}/{episode}",
		"home   /  -",
	} {
		if i == 0 {
			if !strings.HasPrefix(lines[0], want) {
				t.Errorf("header = %q", lines[0])
			}
			continue
		}
		if got := strings.Join(strings.Fields(lines[i]), " "); got != strings.Join(strings.Fields(want), " ") {
			t.Errorf("line %d = %q, want %q", i, got, want)
		}
	}
}
