package model

// Member is mapped to the "Member" table.
// The ID is assigned by the caller; the database never generates it.
type Member struct {
	// Primary key - externally assigned
	ID int64 `gorm:"column:id;primaryKey;autoIncrement:false"`

	Name string `gorm:"column:name;size:255"` // 이름
}

// TableName specifies the table name for Member
func (*Member) TableName() string {
	return "Member"
}

// NewMember creates a new Member instance
func NewMember(id int64, name string) *Member {
	return &Member{
		ID:   id,
		Name: name,
	}
}

func (m *Member) GetID() int64 {
	return m.ID
}

func (m *Member) SetID(id int64) {
	m.ID = id
}

func (m *Member) GetName() string {
	return m.Name
}

func (m *Member) SetName(name string) {
	m.Name = name
}
