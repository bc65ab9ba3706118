package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cznethub/bblocktools"
	"github.com/cznethub/bblocktools/cmd/bblocktools/commands"
	"github.com/cznethub/bblocktools/internal/mcpserver"
)

func main() {
	// Flag defaults come from the environment; a .env file in the working
	// directory supplies it for local runs.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("bblocktools v%s\n", bblocktools.Version())
	case "help", "-h", "--help":
		printUsage()
	case "resolve":
		if err := commands.HandleResolve(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "convert":
		if err := commands.HandleConvert(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "assemble":
		if err := commands.HandleAssemble(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "compare":
		if err := commands.HandleCompare(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// runMCP serves MCP over stdio until the client disconnects or the process
// receives an interrupt.
func runMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

var commandNames = []string{"resolve", "convert", "assemble", "compare", "mcp", "version", "help"}

// suggestCommand returns the known command closest to the input, or ""
// when nothing is within edit distance 2.
func suggestCommand(input string) string {
	best := ""
	bestDistance := 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDistance {
			best = name
			bestDistance = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`bblocktools - Building Block Schema Tools

Usage:
  bblocktools <command> [options]

Commands:
  resolve     Resolve a building block into a self-contained schema
  convert     Convert resolved documents into the forms dialect
  assemble    Run the full pipeline for registered profiles
  compare     Report drift between a block's dual schema representations
  mcp         Serve the pipeline as MCP tools over stdio
  version     Show version information
  help        Show this help message

Examples:
  bblocktools resolve -sources _sources -bblock dataDownload -o resolved.json
  bblocktools assemble -sources _sources -out build
  bblocktools convert -all -in build
  bblocktools compare -sources _sources

Environment:
  BBLOCKS_SOURCES_DIR   default source tree (flags win; .env is loaded)
  BBLOCKS_OUTPUT_DIR    default artifact root

Run 'bblocktools <command> --help' for more information on a command.`)
}
