package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind names a synchronizable catalog type in reports, metrics, and logs.
type Kind string

const (
	KindService Kind = "services"
	KindProduct Kind = "products"
	KindArticle Kind = "articles"
	KindCourse  Kind = "courses"
)

// Item is the read-side view of a synchronizable record.
type Item interface {
	GetID() snowflake.ID
	GetOrgID() snowflake.ID
	SourceID() *snowflake.ID
	Customized() bool
}

// ItemPtr constrains *T to the operations the reconciliation engine needs:
// identity and lineage reads plus clone initialization and full content
// replacement. It is the type descriptor that lets one synchronizer serve
// all four catalog types.
type ItemPtr[T any] interface {
	*T
	Item
	Init(id, orgID snowflake.ID, now time.Time)
	SetSource(sourceID snowflake.ID)
	MarkCustomized()
	CopyContentFrom(src *T, now time.Time)
}
