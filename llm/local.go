package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

// Input keys read by LocalBackend.
const (
	InputPostcode      = "postcode"
	InputReportContext = "reportContext"
	InputUserQuestion  = "userQuestion"
	InputRefusal       = "refusal"
)

// LocalBackend answers without a remote model. Summaries list the data
// lines of the prompt; chat picks the report sentences that share the most
// keywords with the question and refuses when none do.
type LocalBackend struct{}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{}
}

func (l *LocalBackend) Name() string { return "local" }

func (l *LocalBackend) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch req.Task {
	case TaskSummary:
		return l.summary(req)
	case TaskChat:
		return l.chat(req)
	default:
		return "", eris.Errorf("local: unsupported task %q", req.Task)
	}
}

func (l *LocalBackend) summary(req Request) (string, error) {
	var lines, missing []string
	for _, raw := range strings.Split(req.Prompt, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		label, value, ok := strings.Cut(strings.TrimPrefix(line, "- "), ": ")
		if !ok {
			continue
		}
		if value == "Not available" {
			missing = append(missing, label)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s.", label, value))
	}
	if len(lines) == 0 {
		return "", eris.Wrap(ErrMalformedOutput, "local: prompt has no data to summarise")
	}

	var sb strings.Builder
	postcode := req.Inputs[InputPostcode]
	if postcode == "" {
		postcode = "the requested postcode"
	}
	fmt.Fprintf(&sb, "Executive summary for %s, based only on the supplied data.\n", postcode)
	sb.WriteString(strings.Join(lines, "\n"))
	if len(missing) > 0 {
		fmt.Fprintf(&sb, "\nNo data was available for: %s.", strings.Join(missing, ", "))
	}
	return marshalField("summary", sb.String())
}

func (l *LocalBackend) chat(req Request) (string, error) {
	report := req.Inputs[InputReportContext]
	refusal := req.Inputs[InputRefusal]
	keywords := keywordsOf(req.Inputs[InputUserQuestion])

	best, bestScore := "", 0
	for _, sentence := range strings.Split(report, "\n") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		score := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = sentence, score
		}
	}
	if bestScore == 0 {
		return marshalField("botResponse", refusal)
	}
	return marshalField("botResponse", "According to the summary, "+best)
}

var stopWords = map[string]bool{
	"what": true, "which": true, "where": true, "when": true, "who": true, "how": true,
	"the": true, "and": true, "are": true, "there": true, "this": true, "that": true,
	"does": true, "for": true, "about": true, "with": true, "property": true, "area": true,
	"tell": true, "can": true, "you": true, "any": true, "near": true, "like": true,
}

func keywordsOf(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func marshalField(name, value string) (string, error) {
	b, err := json.Marshal(map[string]string{name: value})
	if err != nil {
		return "", eris.Wrap(err, "local: encode reply")
	}
	return string(b), nil
}
