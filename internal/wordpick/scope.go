package wordpick

import (
	"context"
	"fmt"
	"strings"
)

// Source names where a pool came from.
type Source string

const (
	SourceCatalog Source = "catalog"
	SourceTeacher Source = "teacher"
)

// Scope identifies one shuffle bag. Two picks share a bag only when every
// field matches.
type Scope struct {
	Source            Source
	GradeBand         string
	IncludeLowerBands bool
	// Length is the target word length, 0 for any.
	Length  int
	Phonics string
	// Pool tells teacher pools apart; empty for catalog scopes.
	Pool string
}

func (s Scope) String() string {
	length := "any"
	if s.Length > 0 {
		length = fmt.Sprintf("%d", s.Length)
	}
	parts := []string{string(s.Source), s.GradeBand, length, s.Phonics}
	if s.IncludeLowerBands {
		parts = append(parts, "lower")
	}
	if s.Pool != "" {
		parts = append(parts, "pool="+s.Pool)
	}
	return strings.Join(parts, "/")
}

// BagState is the persisted state of one shuffle bag.
type BagState struct {
	Queue []string `json:"queue"`
	Last  string   `json:"last"`
}

// BagRepository persists shuffle bags by scope. A scope with no stored
// state loads as the zero BagState.
type BagRepository interface {
	LoadBag(ctx context.Context, scope Scope) (BagState, error)
	SaveBag(ctx context.Context, scope Scope, state BagState) error
}
