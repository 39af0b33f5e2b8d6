package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the aggregate root: comments and replies are embedded documents and
// are only durable once the containing post is saved.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
	Files     []Attachment         `bson:"files" json:"files"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Dislikes  []primitive.ObjectID `bson:"dislikes" json:"dislikes"`
	Bookmarks []primitive.ObjectID `bson:"bookmarks" json:"bookmarks"`
	Comments  []Comment            `bson:"comments" json:"comments"`
}

type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Text      string               `bson:"text" json:"text"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Dislikes  []primitive.ObjectID `bson:"dislikes" json:"dislikes"`
	Files     []Attachment         `bson:"files" json:"files"`
	Replies   []Reply              `bson:"replies" json:"replies"`
}

type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Text      string               `bson:"text" json:"text"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Dislikes  []primitive.ObjectID `bson:"dislikes" json:"dislikes"`
}

// Comment finds an embedded comment by id. Linear scan; comment fan-out per
// post is expected to be small.
func (p *Post) Comment(id primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// RemoveComment drops the comment with the given id from the post. Reports
// whether a comment was removed.
func (p *Post) RemoveComment(id primitive.ObjectID) bool {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Reply finds an embedded reply by id within this comment.
func (c *Comment) Reply(id primitive.ObjectID) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			return &c.Replies[i]
		}
	}
	return nil
}

// RemoveReply drops the reply with the given id from the comment.
func (c *Comment) RemoveReply(id primitive.ObjectID) bool {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			c.Replies = append(c.Replies[:i], c.Replies[i+1:]...)
			return true
		}
	}
	return false
}

// AllAttachments collects every file owned transitively by the comment.
// Replies carry no attachments, so this is the comment's own files; kept as a
// method so cascading cleanup reads the same at every level.
func (c *Comment) AllAttachments() []Attachment {
	return append([]Attachment(nil), c.Files...)
}

// AllAttachments collects every file owned transitively by the post: its own
// files and those of every embedded comment.
func (p *Post) AllAttachments() []Attachment {
	files := append([]Attachment(nil), p.Files...)
	for i := range p.Comments {
		files = append(files, p.Comments[i].AllAttachments()...)
	}
	return files
}
