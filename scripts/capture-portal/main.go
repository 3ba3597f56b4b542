// Command capture-portal saves the attendance portal's login page as an
// HTML fixture for surface integration tests. It opens a visible
// browser, lets you scan a QR code (or paste the check-in URL) and
// navigate until the login form is on screen, then snapshots the DOM.
//
// Strip session identifiers from the saved fixture before committing it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

func main() {
	checkinURL := flag.String("url", "", "check-in URL to open (optional; you can also navigate by hand)")
	output := flag.String("output", filepath.Join("internal", "surface", "testdata", "fixtures", "login_page.html"), "fixture output path")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	controlURL := launcher.New().
		Headless(false).
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("window-size", "1280,900").
		MustLaunch()

	browser := rod.New().ControlURL(controlURL).MustConnect()
	defer browser.MustClose()

	page := stealth.MustPage(browser)
	if *checkinURL != "" {
		page.MustNavigate(*checkinURL)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("A browser window has opened.")
	fmt.Println("Navigate until the portal login form is visible, then press ENTER.")
	fmt.Print("Ready (or 'quit'): ")

	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(input)) == "quit" {
		fmt.Println("Exiting without capture.")
		return
	}

	page.MustWaitDOMStable()
	time.Sleep(time.Second)

	html, err := page.HTML()
	if err != nil {
		fmt.Printf("Error capturing HTML: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*output, []byte(html), 0o644); err != nil {
		fmt.Printf("Error saving fixture: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved: %s\n", *output)
	fmt.Printf("URL:   %s\n", page.MustInfo().URL)
	fmt.Println("Remember to scrub session identifiers before committing.")
}
