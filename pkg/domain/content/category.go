package content

// Category tags attached to a verdict. The hosted model may emit its own
// free-form tags; these are the ones the rule head produces.
const (
	CategoryAbusive     = "abusive"
	CategoryAdvertising = "advertising"
	CategoryRepetitive  = "repetitive"
	CategoryNone        = "none"
)

// MergeCategories joins rule-head and model-head tags, deduplicated in
// first-seen order. The "none" placeholder survives only when no concrete
// tag was detected at all.
func MergeCategories(groups ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0, 4)
	for _, group := range groups {
		for _, category := range group {
			if category == "" || category == CategoryNone {
				continue
			}
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			merged = append(merged, category)
		}
	}
	if len(merged) == 0 {
		return []string{CategoryNone}
	}
	return merged
}
