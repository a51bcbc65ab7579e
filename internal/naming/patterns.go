package naming

import "regexp"

// Rule pairs a season/episode regex with the function that pulls the season
// and episode digits out of its submatches.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(groups []string) (season, episode string)
}

// Patterns are tried in order and the first rule that matches is used. Earlier
// rules are more reliable; a later rule is never consulted once an earlier one
// has matched, even if the match turns out to be ambiguous.
var Patterns = []Rule{
	{
		// s01e01 | S1E1
		Name:    "sxxexx",
		Pattern: regexp.MustCompile(`[Ss](\d{1,2})[Ee](\d{1,2})`),
		Extract: firstTwoGroups,
	},
	{
		// 01x01 | 1x01 | 1x1 | 01-01 | 1 - 01
		Name:    "nxnn",
		Pattern: regexp.MustCompile(`(\d{1,2}) ?[-x] ?(\d{1,2})`),
		Extract: firstTwoGroups,
	},
	{
		// .101. is season 1 episode 01. The bounding characters belong to the
		// match and are dropped from the surrounding fragments.
		Name:    "nnn",
		Pattern: regexp.MustCompile(`[\W_](\d)(\d{2})[\W_]`),
		Extract: firstTwoGroups,
	},
}

func firstTwoGroups(groups []string) (string, string) {
	return groups[1], groups[2]
}

// episodeMatch is a single unambiguous season/episode hit inside a base name.
type episodeMatch struct {
	rule    *Rule
	season  string
	episode string
	before  string
	after   string
}

// matchEpisode runs the rules against base. It returns nil when no rule
// matches and ErrAmbiguousMatch when the first matching rule hits more than once.
func matchEpisode(base string) (*episodeMatch, error) {
	for i := range Patterns {
		rule := &Patterns[i]

		locs := rule.Pattern.FindAllStringSubmatchIndex(base, -1)
		if len(locs) == 0 {
			continue
		}
		if len(locs) > 1 {
			return &episodeMatch{rule: rule}, ErrAmbiguousMatch
		}

		loc := locs[0]
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = base[loc[2*g]:loc[2*g+1]]
			}
		}

		season, episode := rule.Extract(groups)
		return &episodeMatch{
			rule:    rule,
			season:  season,
			episode: episode,
			before:  base[:loc[0]],
			after:   base[loc[1]:],
		}, nil
	}

	return nil, nil
}
