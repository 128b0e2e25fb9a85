// Package ui provides styled console output for the relay.
package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed, color.Bold)
	infoText    = color.New(color.FgCyan)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)

	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// PrintBanner displays the startup banner.
func PrintBanner() {
	fmt.Println()
	accentText.Println("  ⏱  TIMER RELAY")
	mutedText.Println("  prompt-driven timer generation for meetingtimer.pro")
	fmt.Println()
}

// PrintStartupInfo prints the listen address and the available endpoints.
func PrintStartupInfo(addr string) {
	successText.Printf("  Listening on http://%s\n", addr)
	infoText.Println("  • POST /api/generate - timer/room generation")
	infoText.Println("  • GET  /health       - health check")
	fmt.Println()
}

// PrintRequest logs one handled request with color-coded status.
func PrintRequest(method, path string, status int, latency time.Duration, requestType string) {
	mutedText.Printf("%s ", time.Now().Format("15:04:05"))
	printMethodBadge(method)
	fmt.Printf(" %s ", path)

	switch {
	case status >= 500:
		errorText.Printf("%d", status)
	case status >= 400:
		warningText.Printf("%d", status)
	default:
		successText.Printf("%d", status)
	}

	if requestType != "" {
		mutedText.Printf(" type=%s", requestType)
	}
	mutedText.Printf(" %dms\n", latency.Milliseconds())
}

// PrintShutdown prints the graceful-shutdown notice.
func PrintShutdown() {
	fmt.Println()
	warningText.Println("  Shutting down gracefully...")
}

// PrintGoodbye prints the final message after a clean stop.
func PrintGoodbye() {
	successText.Println("  Server stopped. Goodbye!")
}

func printMethodBadge(method string) {
	switch method {
	case "POST":
		methodPOST.Printf(" %s ", method)
	case "GET":
		methodGET.Printf(" %s ", method)
	default:
		mutedText.Printf(" %s ", method)
	}
}
