package results

import "strings"

// Group collects the results of one test.
type Group struct {
	TestName string   `json:"test_name"`
	Count    int      `json:"count"`
	Results  []Result `json:"results"`
}

// GroupByTest partitions results by test name. Groups appear in the order their
// test name first occurs in the input.
func GroupByTest(results []Result) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)

	for _, result := range results {
		position, ok := index[result.TestName]
		if !ok {
			position = len(groups)
			index[result.TestName] = position
			groups = append(groups, Group{TestName: result.TestName})
		}
		groups[position].Results = append(groups[position].Results, result)
		groups[position].Count++
	}

	return groups
}

// Filter keeps results whose student or test name contains term, ignoring case.
// The term is matched as given, surrounding spaces included. The input is never
// modified; an empty term returns a copy of every result.
func Filter(results []Result, term string) []Result {
	needle := strings.ToLower(term)
	out := make([]Result, 0, len(results))

	for _, result := range results {
		if needle == "" ||
			strings.Contains(strings.ToLower(result.StudentName), needle) ||
			strings.Contains(strings.ToLower(result.TestName), needle) {
			out = append(out, result)
		}
	}

	return out
}
