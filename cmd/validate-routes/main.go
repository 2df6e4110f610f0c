package main

import (
	"fmt"
	"os"

	"github.com/ringhub/voice-gateway/routes"
)

/* validate-routes - Standalone CLI tool to validate routes.yaml
 * Usage: go run cmd/validate-routes/main.go [routes.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	// Get routes file path from args or use default
	routesFile := "routes.yaml"
	if len(os.Args) > 1 {
		routesFile = os.Args[1]
	}

	fmt.Printf("Validating routes file: %s\n", routesFile)

	// Create loader and attempt to load routes
	loader := routes.NewLoader()
	if err := loader.Load(routesFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Success - print loaded routes
	loadedRoutes := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d route(s):\n", len(loadedRoutes))

	for i, route := range loadedRoutes {
		fmt.Printf("\n%d. Route: %s\n", i+1, route.Path)
		fmt.Printf("   Action: %s\n", route.Action)
		if route.Text != "" {
			fmt.Printf("   Text:   %s\n", route.Text)
		}
		if route.Voice != "" {
			fmt.Printf("   Voice:  %s\n", route.Voice)
		}
		if route.PlayURL != "" {
			fmt.Printf("   Play:   %s (loop %d)\n", route.PlayURL, route.Loop)
		}
	}

	fmt.Printf("\n✓ All routes are valid!\n")
	os.Exit(0)
}
