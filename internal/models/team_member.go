package models

import "time"

// TeamMember is one direction of a contact relation: UserID1 sees UserID2 in
// their team list. Connecting two users always stores both directions.
type TeamMember struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID1   uint64    `gorm:"column:user_id1;not null;uniqueIndex:idx_team_members_pair" json:"userId1"`
	UserID2   uint64    `gorm:"column:user_id2;not null;uniqueIndex:idx_team_members_pair" json:"userId2"`
	CreatedAt time.Time `json:"createdAt"`
}

// TeamMemberView is a connection from the looking-up user together with
// the contact it points to.
type TeamMemberView struct {
	Connection TeamMember
	User       User
}
