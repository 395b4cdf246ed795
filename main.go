// =============================================================================
// HelloAsso to Brevo Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point of the HelloAsso to Brevo Converter CLI. It
// hands control to the Cobra commands defined in the cmd package.
//
// USAGE:
//   helloasso-to-brevo -i export.csv [-o out.csv] [--remove-expired]
//   helloasso-to-brevo validate -i export.csv  - Report on an export without writing
//   helloasso-to-brevo version                 - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsers, converter and writer (not for external import)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/helloasso-to-brevo/cmd"
)

func main() {
	cmd.Execute()
}
