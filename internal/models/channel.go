package models

type Channel struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	WorkspaceID uint64 `gorm:"not null;uniqueIndex:uq_channels_workspace_slug,priority:1" json:"workspace_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_channels_workspace_slug,priority:2" json:"slug"`

	// Relations
	Workspace    Workspace     `gorm:"foreignKey:WorkspaceID" json:"-"`
	Publications []Publication `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE" json:"-"`
}
