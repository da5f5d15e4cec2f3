package table

import (
	"regexp"
	"strings"
)

// numericFmtRE matches plain integer/decimal formatted values.
var numericFmtRE = regexp.MustCompile(`^-?\d+\.?\d*$`)

// DetectNumericTuples groups columns by shared dotted prefix where
// every member is either entirely empty or every formatted value is
// numeric (spec §4.5). Groups with fewer than 3 members are dropped;
// the caller enforces max_tuple_size.
func DetectNumericTuples(cols []string, info map[string]*ColumnInfo) map[string][]string {
	groups := map[string][]string{}
	var order []string
	for _, col := range cols {
		i := strings.LastIndexByte(col, '.')
		if i < 0 {
			continue
		}
		prefix := col[:i]
		if _, seen := groups[prefix]; !seen {
			order = append(order, prefix)
		}
		groups[prefix] = append(groups[prefix], col)
	}

	tuples := map[string][]string{}
	for _, prefix := range order {
		members := groups[prefix]
		if len(members) < 3 {
			continue
		}
		if allMembersNumericEligible(members, info) {
			tuples[prefix] = members
		}
	}
	return tuples
}

func allMembersNumericEligible(members []string, info map[string]*ColumnInfo) bool {
	for _, m := range members {
		ci := info[m]
		emptyColumn := !ci.IsTimestamp && isEmptyUnique(ci)
		if emptyColumn || allFmtedNumeric(ci.Fmted) {
			continue
		}
		return false
	}
	return true
}

func isEmptyUnique(ci *ColumnInfo) bool {
	for k := range ci.Unique {
		if k != "" {
			return false
		}
	}
	return true
}

func allFmtedNumeric(fmted []string) bool {
	for _, v := range fmted {
		if v == "" {
			continue
		}
		if !numericFmtRE.MatchString(v) {
			return false
		}
	}
	return true
}
