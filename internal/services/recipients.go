package services

import (
	"context"
	"log"

	"github.com/shutterfolk/backend/internal/models"
	"github.com/shutterfolk/backend/internal/repositories"
)

// RecipientSet is the outcome of recipient selection for one comment.
// Primary holds the owner (photo/album) or the admin group (event/challenge);
// ReplyTarget is the parent comment's author when the comment is a reply.
type RecipientSet struct {
	Primary     []models.User
	ReplyTarget *models.User
}

// All returns every selected recipient, reply target first
func (s *RecipientSet) All() []models.User {
	if s.ReplyTarget == nil {
		return s.Primary
	}
	all := make([]models.User, 0, len(s.Primary)+1)
	all = append(all, *s.ReplyTarget)
	all = append(all, s.Primary...)
	return all
}

// RecipientBuilder computes who should be told about a new comment
type RecipientBuilder struct {
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
}

// NewRecipientBuilder creates a new RecipientBuilder
func NewRecipientBuilder(commentRepo repositories.CommentRepository, userRepo repositories.UserRepository) *RecipientBuilder {
	return &RecipientBuilder{commentRepo: commentRepo, userRepo: userRepo}
}

// Build applies the precedence rules:
//  1. A reply notifies the parent comment's author, unless that author is the
//     commenter themselves or cannot be resolved.
//  2. For photo/album, a reply target supersedes the owner path — one action,
//     one notification.
//  3. For event/challenge, the admin group is notified whether or not the
//     comment is a reply; the reply target is notified in addition. An admin
//     who is the reply target is not notified twice.
//  4. Self-notification is never performed.
//
// Resolution misses degrade silently; Build never fails the routing flow.
func (b *RecipientBuilder) Build(ctx context.Context, comment *models.Comment, resolved *ResolvedEntity) *RecipientSet {
	set := &RecipientSet{}

	if comment.ParentID != nil {
		parent, err := b.commentRepo.GetCommentByID(ctx, *comment.ParentID)
		if err != nil {
			log.Printf("Recipient builder: parent comment %s not found: %v", *comment.ParentID, err)
		} else if parent.UserID != comment.UserID {
			target, err := b.userRepo.GetUserByID(ctx, parent.UserID)
			if err != nil {
				log.Printf("Recipient builder: reply target %d not found: %v", parent.UserID, err)
			} else if !target.IsSuspended {
				set.ReplyTarget = target
			}
		}
	}

	switch comment.EntityType {
	case models.EntityTypePhoto, models.EntityTypeAlbum:
		if set.ReplyTarget != nil {
			break // reply target supersedes the owner path
		}
		owner := resolved.Owner
		if owner == nil || owner.ID == comment.UserID || owner.IsSuspended {
			break
		}
		set.Primary = []models.User{*owner}

	case models.EntityTypeEvent, models.EntityTypeChallenge:
		for _, admin := range resolved.Admins {
			if admin.ID == comment.UserID {
				continue
			}
			if set.ReplyTarget != nil && admin.ID == set.ReplyTarget.ID {
				continue // already covered by the reply notification
			}
			set.Primary = append(set.Primary, admin)
		}
	}

	return set
}
