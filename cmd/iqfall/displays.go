package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/chzchzchz/iqfall/display"
)

type displayOpener func(w, h int, title string) (display.Display, func(), error)

var displays = map[string]displayOpener{
	"terminal": func(w, h int, title string) (display.Display, func(), error) {
		t := display.NewTerminal(os.Stdout)
		t.Title = title
		return t, func() {}, nil
	},
	"web": func(w, h int, title string) (display.Display, func(), error) {
		return display.NewWebSocket(httpAddr), func() {}, nil
	},
	"none": func(w, h int, title string) (display.Display, func(), error) {
		return display.NewMemory(w, h), func() {}, nil
	},
}

func displayNames() string {
	var names []string
	for k := range displays {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func openDisplay(name string, w, h int, title string) (display.Display, func(), error) {
	open, ok := displays[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown display %q (have %s)", name, displayNames())
	}
	return open(w, h, title)
}
