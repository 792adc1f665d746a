package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/HammerMeetNail/paddock/internal/panel"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printFriendView(w io.Writer, v panel.FriendView) {
	fmt.Fprintf(w, "%s: %s\n", v.Username, v.Status)
	if v.Message != "" {
		fmt.Fprintf(w, "  %s\n", v.Message)
	}
	if len(v.Actions) > 0 {
		names := make([]string, 0, len(v.Actions))
		for _, a := range v.Actions {
			names = append(names, string(a))
		}
		fmt.Fprintf(w, "  actions: %s\n", strings.Join(names, ", "))
	}
	if v.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", v.Error)
	}
}
