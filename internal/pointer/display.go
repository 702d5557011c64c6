package pointer

import (
	"os"
	"runtime"
)

// displayWarning returns a user-facing note when the session is unlikely to
// allow cursor reads or warps. Pure Wayland sessions without XWayland hide the
// pointer from X11 clients.
func displayWarning() string {
	return displayWarningFor(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY"), os.Getenv("DISPLAY"))
}

func displayWarningFor(goos, wayland, x11 string) string {
	if goos != "linux" {
		return ""
	}
	if wayland != "" && x11 == "" {
		return "Wayland session without DISPLAY detected; cursor position may not be readable (X11 is required)"
	}
	if wayland == "" && x11 == "" {
		return "no DISPLAY set; cursor control needs a running X11 session"
	}
	return ""
}
