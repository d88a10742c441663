package precedent

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// TextSuite tests the lexical building blocks of factor scoring.
type TextSuite struct {
	suite.Suite
}

func TestTextSuite(t *testing.T) {
	suite.Run(t, new(TextSuite))
}

func (s *TextSuite) TestTokenize() {
	tokens := tokenize("The Agent accessed, and THEN deleted; a file!")
	s.True(tokens["agent"])
	s.True(tokens["accessed"])
	s.True(tokens["deleted"])
	s.True(tokens["file"])
	s.True(tokens["then"])
	s.False(tokens["the"], "stopwords are dropped")
	s.False(tokens["and"], "stopwords are dropped")
	s.False(tokens["a"], "short tokens are dropped")
}

func (s *TextSuite) TestTokenizeKeepsIdentifierCharacters() {
	tokens := tokenize("breach of rule-sec-001 and tool_use limits")
	s.True(tokens["rule-sec-001"])
	s.True(tokens["tool_use"])
}

func (s *TextSuite) TestJaccard() {
	a := tokenize("agent accessed credential store")
	b := tokenize("agent accessed credential endpoint")

	s.InDelta(0.6, jaccard(a, b), 1e-9) // 3 shared of 5 total
	s.Equal(1.0, jaccard(a, a))
	s.Equal(0.0, jaccard(a, tokenize("completely different words here")))
	s.Equal(0.0, jaccard(nil, nil))
	s.Equal(0.0, jaccard(a, nil))
}

func (s *TextSuite) TestExtractEntities() {
	entities := extractEntities("the agent accessed a credential via rule-sec-001")
	s.True(entities["person:agent"])
	s.True(entities["action:accessed"])
	s.True(entities["object:credential"])
	s.True(entities["rule:rule-sec-001"])
	s.Len(entities, 4)
}

func (s *TextSuite) TestClassifyIntent() {
	cases := []struct {
		name           string
		text           string
		want           intent
		wantConfidence float64
	}{
		{"pure enforcement", "violation breach blocked", intentEnforcement, 1.0},
		{"pure exemption", "waiver exemption granted", intentExemption, 1.0},
		{"mixed leans on majority", "violation breach blocked with one waiver", intentEnforcement, 0.75},
		{"no signal defaults to enforcement", "nothing relevant here", intentEnforcement, 0.0},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			got, confidence := classifyIntent(tc.text)
			s.Equal(tc.want, got)
			s.InDelta(tc.wantConfidence, confidence, 1e-9)
		})
	}
}

func (s *TextSuite) TestIntentMatch() {
	// Reasoning covers 3 of the 6 enforcement keywords.
	reasoning := "the violation was a breach and access was blocked"
	s.InDelta(0.5, intentMatch(intentEnforcement, 1.0, reasoning), 1e-9)
	s.InDelta(0.25, intentMatch(intentEnforcement, 0.5, reasoning), 1e-9)
	s.Equal(0.0, intentMatch(intentEnforcement, 0.0, reasoning))
	s.Equal(0.0, intentMatch(intentEnforcement, 1.0, "unrelated text"))
}
