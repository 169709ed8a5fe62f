package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kursplaner/kursplaner/internal/model"
)

var validModes = []string{"first", "all", "hints"}

func main() {
	// Define arguments
	modePtr := flag.String("mode", "first", `Solve mode. Allowed values are:
- "first" (return the first valid schedule found),
- "all" (enumerate valid schedules ranked by score) and
- "hints" (on failure, additionally compute hints and verified alternatives), where "first" is the default`)
	filePathPtr := flag.String("file", "", "Path to the JSON request file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	maxSolutionsPtr := flag.Int("max", model.DefaultMaxSolutions, "Maximum number of schedules to enumerate")
	budgetPtr := flag.Int("budget", 0, "Abort the search after visiting this many partial assignments (0 disables the budget)")
	debugPtr := flag.Bool("debug", false, "Log search progress to stderr")
	flag.Parse()
	mode := strings.ToLower(*modePtr)
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if !slices.Contains(validModes, mode) {
		log.Fatalf("%v is not a valid mode", mode)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	}

	// Extract request
	request, err := model.RequestFromJSON(filePath)
	if err != nil {
		log.Fatalf("cannot parse request file: %v", err)
	}

	// Initialize engines
	options := []model.SolverOption{}
	if *budgetPtr > 0 {
		options = append(options, model.WithNodeBudget(*budgetPtr))
	}
	if *debugPtr {
		debugLogger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("cannot initialize debug logger: %v", err)
		}
		defer debugLogger.Sync() //nolint:errcheck
		options = append(options, model.WithDebugLogger(debugLogger))
	}
	solver := model.NewSolver(options...)

	// Solve
	var output any
	solved := false
	switch mode {
	case "first":
		result, err := solver.Solve(request.SolveRequest)
		if err != nil {
			log.Fatalf("an error occurred during the search: %v", err)
		}
		output, solved = result, result.Success
	case "all":
		result, err := solver.FindAllSolutions(request.SolveRequest, *maxSolutionsPtr)
		if err != nil {
			log.Fatalf("an error occurred during the search: %v", err)
		}
		output, solved = result, result.Success
	case "hints":
		result, err := model.NewHintingSolver(solver).Solve(request, *maxSolutionsPtr)
		if err != nil {
			log.Fatalf("an error occurred during the search: %v", err)
		}
		output, solved = result, result.Success
	}

	// Marshal output into json
	outputJson, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else {
		err := os.WriteFile(outFile, outputJson, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	if !solved {
		os.Exit(20)
	}
	os.Exit(10)
}
