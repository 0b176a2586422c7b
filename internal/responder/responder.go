// Package responder produces the canned replies of the chat bot. Messages are
// scanned for keywords with an Aho-Corasick automaton; the first keyword in
// table order that appears selects the reply candidates.
package responder

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	goahocorasick "github.com/anknown/ahocorasick"
)

var ErrNoDefaults = errors.New("responder needs at least one default reply")

// Rule maps a keyword to the replies it may trigger.
type Rule struct {
	Keyword string
	Replies []string
}

type Responder struct {
	mu       sync.Mutex
	matcher  *goahocorasick.Machine
	rank     map[string]int
	rules    []Rule
	defaults []string
}

// New builds a responder. Keywords are matched case-insensitively; rules
// without a keyword or without replies are skipped.
func New(rules []Rule, defaults []string) (*Responder, error) {
	if len(defaults) == 0 {
		return nil, ErrNoDefaults
	}

	r := &Responder{rank: make(map[string]int), defaults: defaults}
	var patterns [][]rune
	for _, rule := range rules {
		keyword := strings.ToLower(rule.Keyword)
		if keyword == "" || len(rule.Replies) == 0 {
			continue
		}
		if _, dup := r.rank[keyword]; dup {
			continue
		}
		r.rank[keyword] = len(r.rules)
		r.rules = append(r.rules, Rule{Keyword: keyword, Replies: rule.Replies})
		patterns = append(patterns, []rune(keyword))
	}

	if len(patterns) > 0 {
		slices.SortFunc(patterns, func(a, b []rune) int {
			return strings.Compare(string(a), string(b))
		})
		m := new(goahocorasick.Machine)
		if err := m.Build(patterns); err != nil {
			return nil, err
		}
		r.matcher = m
	}
	return r, nil
}

// Default returns the responder with the built-in keyword table.
func Default() *Responder {
	r, err := New(DefaultRules, DefaultReplies)
	if err != nil {
		panic(err)
	}
	return r
}

// Reply returns a non-empty reply to message.
func (r *Responder) Reply(message string) string {
	if rule, ok := r.match(message); ok {
		return pick(rule.Replies)
	}
	return pick(r.defaults)
}

// Keyword reports the rule keyword that message triggers, if any.
func (r *Responder) Keyword(message string) (string, bool) {
	rule, ok := r.match(message)
	return rule.Keyword, ok
}

func (r *Responder) match(message string) (Rule, bool) {
	if r.matcher == nil || message == "" {
		return Rule{}, false
	}

	r.mu.Lock()
	terms := r.matcher.MultiPatternSearch([]rune(strings.ToLower(message)), false)
	r.mu.Unlock()

	best := -1
	for _, term := range terms {
		idx, ok := r.rank[string(term.Word)]
		if ok && (best < 0 || idx < best) {
			best = idx
		}
	}
	if best < 0 {
		return Rule{}, false
	}
	return r.rules[best], true
}

func pick(replies []string) string {
	return replies[rand.IntN(len(replies))]
}
