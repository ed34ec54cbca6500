package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"coolc/ast"
	"coolc/common"
	"coolc/config"
	"coolc/logging"
	"coolc/sem"
	"coolc/syntax"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `coolc` application.  It returns the process exit
// code so that exit-code mapping stays out of the analysis core.
func Execute() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("coolc", "coolc is a compiler front end for the COOL teaching language", true)
	cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "verbose"})

	checkCmd := cli.AddSubcommand("check", "run semantic analysis on a source file", true)
	checkCmd.AddPrimaryArg("file", "the path to the source file to check", false)
	checkCmd.AddFlag("dump-ast", "da", "print the parsed class declarations before checking")

	cli.AddSubcommand("version", "print the coolc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 1
	}

	// process the inputed command line
	// the log level is empty when the flag is not given so the project file
	// can supply it
	loglevel := ""
	if lv, ok := result.Arguments["loglevel"]; ok {
		loglevel = lv.(string)
	}

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		return execCheckCommand(subResult, loglevel)
	case "version":
		logging.PrintInfoMessage("Coolc Version", common.CoolcVersion)
	}

	return 0
}

// execCheckCommand executes the check subcommand and handles all errors
func execCheckCommand(result *olive.ArgParseResult, loglevel string) int {
	// the optional project file supplies defaults; CLI arguments win
	workDir, err := os.Getwd()
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return 1
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return 1
	}

	if loglevel == "" && cfg.LogLevel != "" {
		loglevel = cfg.LogLevel
	}
	logging.Initialize(loglevel)

	srcPath, ok := result.PrimaryArg()
	if !ok {
		srcPath = cfg.Source
	}
	if srcPath == "" {
		logging.PrintErrorMessage("Usage Error", fmt.Errorf("no source file given and no default in %s", common.ConfigFileName))
		return 1
	}
	if filepath.Ext(srcPath) != common.SrcFileExtension {
		logging.PrintErrorMessage("Usage Error", fmt.Errorf("source file must have the %s extension", common.SrcFileExtension))
		return 1
	}

	f, err := os.Open(srcPath)
	if err != nil {
		logging.PrintErrorMessage("File Error", err)
		return 1
	}
	defer f.Close()

	logging.DisplayBeginPhase("Parsing")
	prog, err := syntax.ParseSource(f)
	if err != nil {
		logging.DisplayEndPhase(false)
		logging.PrintErrorMessage("Syntax Error", err)
		logging.DisplayAnalysisFinished(1)
		return 1
	}
	logging.DisplayEndPhase(true)

	if result.HasFlag("dump-ast") || cfg.DumpAST {
		dumpClasses(prog)
	}

	logging.DisplayBeginPhase("Analyzing")
	res := sem.Analyze(prog)
	logging.DisplayEndPhase(!res.Failed())

	for _, serr := range res.Errors {
		logging.PrintErrorMessage("Semantic Error", serr)
	}

	logging.DisplayAnalysisFinished(len(res.Errors))
	if res.Failed() {
		return 1
	}

	return 0
}

// dumpClasses prints a one-line summary of every parsed class declaration
func dumpClasses(prog *ast.Program) {
	for _, decl := range prog.Classes {
		parent := decl.Parent
		if parent == "" {
			parent = "Object"
		}

		attrs, methods := 0, 0
		for _, feat := range decl.Features {
			if _, ok := feat.(*ast.Method); ok {
				methods++
			} else {
				attrs++
			}
		}

		logging.PrintInfoMessage(
			"Class",
			fmt.Sprintf("%s inherits %s (%d attributes, %d methods)", decl.Name, parent, attrs, methods),
		)
	}
}
