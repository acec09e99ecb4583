package templategen

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

const (
	// RootOption keeps the folder currently browsed.
	RootOption = "__root__"
	// CreateNewFolderOption asks for a new folder name inside the folder currently browsed.
	CreateNewFolderOption = "__create_new_folder__"

	specsDir         = "e2e"
	fixturesDir      = "fixtures"
	testFunctionsDir = "support/TestCases"
)

var (
	ErrTestCaseNameRequired = errors.New("testCaseName is required")
	ErrInvalidFolderName    = errors.New("invalid folder name")
)

// Options ...
type Options struct {
	TestCaseName string
	Fixture      bool
}

// ParseArgs reads `<testCaseName> [fixture|--fixture]`, help is requested with -h, --help or help.
func ParseArgs(args []string) (opts Options, showHelp bool) {
	if len(args) > 0 {
		opts.TestCaseName = args[0]
	}
	if len(args) > 1 {
		opts.Fixture = args[1] == "fixture" || args[1] == "--fixture"
	}

	switch opts.TestCaseName {
	case "-h", "--help", "help":
		return Options{}, true
	}
	return opts, false
}

// Result lists the files of a generation, paths are relative to the cypress dir.
type Result struct {
	SpecPath         string
	TestFunctionPath string
	FixturePath      string

	Created     []string
	Existing    []string
	ImportAdded bool
}

// Generator scaffolds a new test case: the spec, its test function and optionally a fixture.
type Generator struct {
	logger      log.Logger
	prompter    Prompter
	pathChecker pathutil.PathChecker
	fileManager fileutil.FileManager
	cypressDir  string
}

// NewGenerator ...
func NewGenerator(logger log.Logger, prompter Prompter, pathChecker pathutil.PathChecker, fileManager fileutil.FileManager, cypressDir string) Generator {
	return Generator{
		logger:      logger,
		prompter:    prompter,
		pathChecker: pathChecker,
		fileManager: fileManager,
		cypressDir:  cypressDir,
	}
}

// Generate never overwrites an existing file.
func (g Generator) Generate(opts Options) (Result, error) {
	testCaseName := strings.TrimSpace(opts.TestCaseName)
	if testCaseName == "" {
		return Result{}, ErrTestCaseNameRequired
	}
	symbol := SymbolName(FunctionName(testCaseName))

	folders, err := g.selectFolders(nil)
	if err != nil {
		return Result{}, err
	}

	description, err := g.prompter.Input("Description:")
	if err != nil {
		return Result{}, err
	}

	result := Result{
		SpecPath:         path.Join(append(append([]string{specsDir}, folders...), testCaseName+".cy.js")...),
		TestFunctionPath: path.Join(append(append([]string{testFunctionsDir}, folders...), testCaseName+".js")...),
	}

	testFunctionImport, err := relativeImport(result.SpecPath, result.TestFunctionPath)
	if err != nil {
		return Result{}, err
	}

	if err := g.createFileIfNotExists(&result, result.SpecPath, specFile(symbol, description, testFunctionImport)); err != nil {
		return Result{}, err
	}
	if err := g.createFileIfNotExists(&result, result.TestFunctionPath, testFunctionFile(symbol)); err != nil {
		return Result{}, err
	}

	if !opts.Fixture {
		return result, nil
	}

	result.FixturePath = path.Join(append(append([]string{fixturesDir}, folders...), testCaseName+".json")...)
	if err := g.createFileIfNotExists(&result, result.FixturePath, fixtureContent); err != nil {
		return Result{}, err
	}

	fixtureImportPath, err := relativeImport(result.TestFunctionPath, result.FixturePath)
	if err != nil {
		return Result{}, err
	}

	added, err := g.appendImportInFile(fixtureImport(symbol, fixtureImportPath), result.TestFunctionPath)
	if err != nil {
		return Result{}, err
	}
	result.ImportAdded = added

	return result, nil
}

// selectFolders walks down the spec folders until the user picks the current one, creates a
// new one, or reaches a folder without children.
func (g Generator) selectFolders(folders []string) ([]string, error) {
	children, err := g.childFolders(folders)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return folders, nil
	}

	current := specsDir
	if len(folders) > 0 {
		current = folders[len(folders)-1]
	}

	options := append(append([]string{RootOption}, children...), CreateNewFolderOption)
	selected, err := g.prompter.Select(fmt.Sprintf("Select Folder in %s", current), options)
	if err != nil {
		return nil, err
	}

	switch selected {
	case RootOption:
		return folders, nil
	case CreateNewFolderOption:
		name, err := g.prompter.Input("New Folder Name:")
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrInvalidFolderName
		}
		return append(folders, strings.ReplaceAll(name, " ", "_")), nil
	default:
		return g.selectFolders(append(folders, selected))
	}
}

func (g Generator) childFolders(folders []string) ([]string, error) {
	dir := g.cypressPath(path.Join(append([]string{specsDir}, folders...)...))

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var children []string
	for _, entry := range entries {
		if entry.IsDir() {
			children = append(children, entry.Name())
		}
	}
	return children, nil
}

func (g Generator) createFileIfNotExists(result *Result, relPth, content string) error {
	pth := g.cypressPath(relPth)

	exists, err := g.pathChecker.IsPathExists(pth)
	if err != nil {
		return err
	}
	if exists {
		g.logger.Warnf("Exists Already: %s", pth)
		result.Existing = append(result.Existing, relPth)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(pth), 0755); err != nil {
		return err
	}
	if err := g.fileManager.Write(pth, content, 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", pth, err)
	}
	g.logger.Donef("Created File: %s", pth)
	result.Created = append(result.Created, relPth)

	return nil
}

func (g Generator) appendImportInFile(statement, relPth string) (bool, error) {
	pth := g.cypressPath(relPth)

	content, err := os.ReadFile(pth)
	if err != nil {
		return false, err
	}

	updated, added := AppendImport(string(content), statement)
	if !added {
		return false, nil
	}

	if err := g.fileManager.Write(pth, updated, 0644); err != nil {
		return false, err
	}
	g.logger.Donef("Added Import: %s", statement)
	g.logger.Printf("In: %s", pth)

	return true, nil
}

func (g Generator) cypressPath(relPth string) string {
	return filepath.Join(g.cypressDir, filepath.FromSlash(relPth))
}

// relativeImport is the import path of target from the file at from, both relative to the cypress dir.
func relativeImport(from, target string) (string, error) {
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(from)), filepath.FromSlash(target))
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel, nil
}
