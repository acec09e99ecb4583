package templategen

import (
	"fmt"
	"regexp"
	"strings"
)

// importPattern matches ES module import statements, one per line.
var importPattern = regexp.MustCompile(`(?m)import(?:["'\s]*([\w*{}\n\r\t, ]+)from\s*)?["'\s].*([@\w_-]+)["'\s].*;$`)

const fixtureContent = "{}"

// FunctionName is the test function's name: the test case name with its first "-" removed.
func FunctionName(testCaseName string) string {
	return strings.Replace(testCaseName, "-", "", 1)
}

// SymbolName is the identifier the test function is exported and imported as.
func SymbolName(functionName string) string {
	if i := strings.LastIndex(functionName, "/"); i >= 0 {
		return functionName[i+1:]
	}
	return functionName
}

func specFile(symbol, description, testFunctionImport string) string {
	return fmt.Sprintf(`import %s from "%s";

describe("Test Case Automated: ", () => {
  it("%s", () => {
    %s();
  });
});
`, symbol, testFunctionImport, description, symbol)
}

func testFunctionFile(symbol string) string {
	return fmt.Sprintf(`export default function %s() {
  // #1.
  // #2.
  // #3.
}
`, symbol)
}

func fixtureImport(symbol, fixtureImportPath string) string {
	return fmt.Sprintf(`import %sData from "%s";`, symbol, fixtureImportPath)
}

// AppendImport adds statement after the existing imports of content, or in front of it when
// content has none. Content already holding statement is returned unchanged.
func AppendImport(content, statement string) (string, bool) {
	if strings.Contains(content, statement) {
		return content, false
	}

	imports := importPattern.FindAllString(content, -1)
	if len(imports) == 0 {
		return statement + "\n\n" + content, true
	}

	block := strings.Join(imports, "\n")
	if i := strings.Index(content, block); i >= 0 {
		end := i + len(block)
		return content[:end] + "\n" + statement + content[end:], true
	}

	last := imports[len(imports)-1]
	end := strings.LastIndex(content, last) + len(last)
	return content[:end] + "\n" + statement + content[end:], true
}
