package regvm

import (
	"sort"

	"github.com/KromDaniel/regvm/internal/ast"
	"github.com/KromDaniel/regvm/internal/compiler"
)

// AnalysisResult contains the results of pattern analysis.
type AnalysisResult struct {
	// FeatureLabels are derived from pattern structure (sorted alphabetically)
	FeatureLabels []string `json:"feature_labels"`

	// Tree is the normalised pattern as the generator sees it
	Tree string `json:"tree"`

	Nullable            bool `json:"nullable"`
	HasCatastrophicRisk bool `json:"has_catastrophic_risk"`
	HasEmptyLoop        bool `json:"has_empty_loop"`
	Instructions        int  `json:"instructions"`
}

// Analyze parses and generates pattern and reports its structure without
// running it.
//
// Example:
//
//	result, err := regvm.Analyze("(a|b)*c")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.FeatureLabels) // ["Alternation", "Literal", "Star"]
func Analyze(pattern string) (*AnalysisResult, error) {
	tree, err := ast.Parse(pattern)
	if err != nil {
		return nil, &Error{Stage: StageParse, Pattern: pattern, Err: err}
	}
	prog, err := compiler.Generate(tree)
	if err != nil {
		return nil, &Error{Stage: StageGenerate, Pattern: pattern, Err: err}
	}

	a := ast.Analyze(tree)
	return &AnalysisResult{
		FeatureLabels:       featureLabels(a),
		Tree:                tree.String(),
		Nullable:            a.Nullable,
		HasCatastrophicRisk: a.NestedQuantifiers,
		HasEmptyLoop:        a.EmptyLoop,
		Instructions:        prog.Len(),
	}, nil
}

// Analysis returns the analysis of a compiled pattern. It returns nil for a
// Regexp loaded from a program image.
func (re *Regexp) Analysis() *AnalysisResult {
	if re.tree == nil {
		return nil
	}
	a := ast.Analyze(re.tree)
	return &AnalysisResult{
		FeatureLabels:       featureLabels(a),
		Tree:                re.tree.String(),
		Nullable:            a.Nullable,
		HasCatastrophicRisk: a.NestedQuantifiers,
		HasEmptyLoop:        a.EmptyLoop,
		Instructions:        re.prog.Len(),
	}
}

func featureLabels(a ast.Analysis) []string {
	var labels []string
	if a.Ors > 0 {
		labels = append(labels, "Alternation")
	}
	if a.Stars > 0 {
		labels = append(labels, "Star")
	}
	if a.Plusses > 0 {
		labels = append(labels, "Plus")
	}
	if a.Questions > 0 {
		labels = append(labels, "Question")
	}
	if a.Chars > 0 {
		labels = append(labels, "Literal")
	}
	if a.Chars == 0 && a.Ors == 0 && a.Stars == 0 && a.Plusses == 0 && a.Questions == 0 {
		labels = append(labels, "Empty")
	}
	sort.Strings(labels)
	return labels
}
