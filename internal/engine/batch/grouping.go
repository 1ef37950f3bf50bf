// internal/engine/batch/grouping.go
package batch

import (
	urlutil "github.com/law-makers/pagesift/internal/utils/url"
)

// Job is one URL of a batch together with its position in the input
type Job struct {
	Index int
	URL   string
}

// GroupByHost groups jobs by host, keeping input order within each group.
// Unparseable URLs share the "default" group.
func GroupByHost(jobs []Job) (map[string][]Job, []string) {
	groups := make(map[string][]Job)
	var order []string

	for _, job := range jobs {
		host := urlutil.Hostname(job.URL)
		if host == "" {
			host = "default"
		}
		if _, seen := groups[host]; !seen {
			order = append(order, host)
		}
		groups[host] = append(groups[host], job)
	}

	return groups, order
}

// Interleave orders jobs round-robin across hosts so that workers spread
// over sites instead of queueing on one host's rate limit.
func Interleave(jobs []Job) []Job {
	groups, order := GroupByHost(jobs)
	out := make([]Job, 0, len(jobs))

	for len(out) < len(jobs) {
		for _, host := range order {
			if g := groups[host]; len(g) > 0 {
				out = append(out, g[0])
				groups[host] = g[1:]
			}
		}
	}
	return out
}
