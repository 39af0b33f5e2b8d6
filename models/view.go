package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRef is the populated identity shape embedded in read responses.
type UserRef struct {
	ID             primitive.ObjectID `json:"_id"`
	Username       string             `json:"username"`
	ProfilePicture string             `json:"profilePicture"`
	Email          string             `json:"email,omitempty"`
}

// PostView is a post with author identities and vote lists populated.
// Comment and reply vote sets stay as raw ids; only their authors are
// resolved.
type PostView struct {
	ID        primitive.ObjectID `json:"_id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Author    *UserRef           `json:"author"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Files     []Attachment       `json:"files"`
	Likes     []UserRef          `json:"likes"`
	Dislikes  []UserRef          `json:"dislikes"`
	Bookmarks []UserRef          `json:"bookmarks"`
	Comments  []CommentView      `json:"comments"`
}

type CommentView struct {
	ID        primitive.ObjectID   `json:"_id"`
	Text      string               `json:"text"`
	Author    *UserRef             `json:"author"`
	CreatedAt time.Time            `json:"createdAt"`
	Likes     []primitive.ObjectID `json:"likes"`
	Dislikes  []primitive.ObjectID `json:"dislikes"`
	Files     []Attachment         `json:"files"`
	Replies   []ReplyView          `json:"replies"`
}

type ReplyView struct {
	ID        primitive.ObjectID   `json:"_id"`
	Text      string               `json:"text"`
	Author    *UserRef             `json:"author"`
	CreatedAt time.Time            `json:"createdAt"`
	Likes     []primitive.ObjectID `json:"likes"`
	Dislikes  []primitive.ObjectID `json:"dislikes"`
}

// UserIDs returns every user id referenced anywhere in the post aggregate,
// deduplicated: the author, comment and reply authors, and the members of the
// like/dislike/bookmark sets.
func (p *Post) UserIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	add(p.Author)
	for _, set := range [][]primitive.ObjectID{p.Likes, p.Dislikes, p.Bookmarks} {
		for _, id := range set {
			add(id)
		}
	}
	for i := range p.Comments {
		add(p.Comments[i].Author)
		for j := range p.Comments[i].Replies {
			add(p.Comments[i].Replies[j].Author)
		}
	}
	return ids
}

// NewPostView resolves author identities and vote lists against the given
// user map. withEmail controls whether emails appear in the refs: reads
// include them, create/update responses do not. Users missing from the map
// degrade to a bare-id ref.
func NewPostView(p *Post, users map[primitive.ObjectID]*User, withEmail bool) *PostView {
	ref := func(id primitive.ObjectID) *UserRef {
		r := &UserRef{ID: id}
		if u, ok := users[id]; ok {
			r.Username = u.Username
			r.ProfilePicture = u.ProfilePicture
			if withEmail {
				r.Email = u.Email
			}
		}
		return r
	}
	refs := func(ids []primitive.ObjectID) []UserRef {
		out := make([]UserRef, len(ids))
		for i, id := range ids {
			out[i] = *ref(id)
		}
		return out
	}

	view := &PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    ref(p.Author),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Files:     p.Files,
		Likes:     refs(p.Likes),
		Dislikes:  refs(p.Dislikes),
		Bookmarks: refs(p.Bookmarks),
		Comments:  make([]CommentView, len(p.Comments)),
	}
	for i := range p.Comments {
		c := &p.Comments[i]
		cv := CommentView{
			ID:        c.ID,
			Text:      c.Text,
			Author:    ref(c.Author),
			CreatedAt: c.CreatedAt,
			Likes:     c.Likes,
			Dislikes:  c.Dislikes,
			Files:     c.Files,
			Replies:   make([]ReplyView, len(c.Replies)),
		}
		for j := range c.Replies {
			r := &c.Replies[j]
			cv.Replies[j] = ReplyView{
				ID:        r.ID,
				Text:      r.Text,
				Author:    ref(r.Author),
				CreatedAt: r.CreatedAt,
				Likes:     r.Likes,
				Dislikes:  r.Dislikes,
			}
		}
		view.Comments[i] = cv
	}
	return view
}
