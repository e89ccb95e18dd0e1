package store

// Model is the common base of every SQL-backed record: a string primary key
// assigned by the store on insert.
type Model struct {
	ID string `gorm:"primaryKey;column:id;size:64" json:"id"`
}

func (m *Model) GetID() string   { return m.ID }
func (m *Model) SetID(id string) { m.ID = id }

// Record is the pointer side of a record type T.
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
}

type ChangeKind string

const (
	Inserted ChangeKind = "insert"
	Updated  ChangeKind = "update"
	Deleted  ChangeKind = "delete"
)

// ChangeEvent is delivered to listeners after a successful write.
type ChangeEvent struct {
	Table string
	Kind  ChangeKind
	IDs   []string
}

type Listener func(ev ChangeEvent)
