package store

import (
	"strings"

	"github.com/google/uuid"
)

type (
	CollectionRef struct {
		Path string
	}

	DocRef struct {
		Path string
		ID   string
	}
)

func Collection(name string) CollectionRef {
	return CollectionRef{Path: name}
}

func (c CollectionRef) Doc(id string) DocRef {
	return DocRef{Path: c.Path + "/" + id, ID: id}
}

// NewDoc allocates a reference with a fresh random id. Nothing is written.
func (c CollectionRef) NewDoc() DocRef {
	return c.Doc(NewID())
}

func (d DocRef) Collection(name string) CollectionRef {
	return CollectionRef{Path: d.Path + "/" + name}
}

func (d DocRef) Parent() CollectionRef {
	i := strings.LastIndex(d.Path, "/")
	if i < 0 {
		return CollectionRef{}
	}
	return CollectionRef{Path: d.Path[:i]}
}

func (d DocRef) String() string {
	return d.Path
}

func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether the path has an even, non-zero number of non-empty segments.
func (d DocRef) Valid() bool {
	segs := strings.Split(d.Path, "/")
	return len(segs)%2 == 0 && noEmpty(segs)
}

func (c CollectionRef) Valid() bool {
	segs := strings.Split(c.Path, "/")
	return len(segs)%2 == 1 && noEmpty(segs)
}

func noEmpty(segs []string) bool {
	for _, s := range segs {
		if s == "" {
			return false
		}
	}
	return true
}
