package model

import "fmt"

// AnnotationKind marks a budget note as payable or receivable.
type AnnotationKind string

const (
	// KindPayable is a note of amounts to pay ("pagar").
	KindPayable AnnotationKind = "pagar"
	// KindReceivable is a note of amounts to receive ("receber").
	KindReceivable AnnotationKind = "receber"
)

// ParseAnnotationKind converts user input into an AnnotationKind, accepting
// the English names and the stored values.
func ParseAnnotationKind(s string) (AnnotationKind, error) {
	switch s {
	case "payable", "pagar":
		return KindPayable, nil
	case "receivable", "receber":
		return KindReceivable, nil
	default:
		return "", fmt.Errorf("unknown annotation kind %q (want payable or receivable)", s)
	}
}

// Valid reports whether k is one of the two known kinds.
func (k AnnotationKind) Valid() bool {
	return k == KindPayable || k == KindReceivable
}

// AnnotationItem is a single line of a budget note.
type AnnotationItem struct {
	Content      string
	ID           int64
	AnnotationID int64
	Value        int64 // cents
	Completed    bool
}

// Annotation is a free-form monthly budget note owning an ordered item list.
// Unlike Category.Balance, the item total is never stored; use Total.
type Annotation struct {
	Month string
	Items []AnnotationItem
	Kind  AnnotationKind
	ID    int64
}

// Total sums the note's item values at read time.
func (a *Annotation) Total() int64 {
	var total int64
	for _, item := range a.Items {
		total += item.Value
	}
	return total
}
