// Package util holds small platform helpers for process startup.
package util

import "strings"

var shellProcesses = []string{
	"cmd.exe",
	"powershell.exe",
	"pwsh.exe",
	"wt.exe",
	"conhost.exe",
	"windowsterminal.exe",
}

// startedFromGUI decides whether a process was launched by double-click:
// either it has no console at all, or its parent is the desktop shell rather
// than a terminal.
func startedFromGUI(parent string, hasConsole bool) bool {
	if !hasConsole {
		return true
	}
	if isShellProcess(parent) {
		return false
	}
	return strings.EqualFold(parent, "explorer.exe")
}

func isShellProcess(name string) bool {
	name = strings.ToLower(name)
	for _, p := range shellProcesses {
		if name == p {
			return true
		}
	}
	return false
}
