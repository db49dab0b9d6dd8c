package chat

import (
	"strings"
	"time"
)

const (
	clockLayout   = "15:04"
	usersPrefix   = "/users "
	privateMarker = "[Private]"
)

func stamp(t time.Time) string {
	return t.Format(clockLayout)
}

// publicLine renders "HH:MM - name: text".
func publicLine(t time.Time, name, text string) string {
	return stamp(t) + " - " + name + ": " + text
}

func joinLine(t time.Time, name string) string {
	return stamp(t) + " - " + name + " has joined the chat."
}

func leaveLine(t time.Time, name string) string {
	return stamp(t) + " - " + name + " left the chat."
}

// privateLine renders "HH:MM [Private] sender: text".
func privateLine(t time.Time, sender, text string) string {
	return stamp(t) + " " + privateMarker + " " + sender + ": " + text
}

func privateEcho(target, line string) string {
	return "To " + target + ": " + line
}

func notFoundLine(target string) string {
	return "User " + target + " not found."
}

// usersLine renders "/users a,b,c"; an empty roster renders "/users ".
func usersLine(names []string) string {
	return usersPrefix + strings.Join(names, ",")
}
