package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shutterfolk/backend/internal/models"
	"github.com/shutterfolk/backend/internal/repositories"
)

// defaultEmailWorkers bounds the concurrent email sends of one fan-out
const defaultEmailWorkers = 4

// CommentNotificationService routes a newly created comment to its
// recipients: in-app notification records, preference-gated emails with
// opt-out links, and a cache invalidation signal.
//
// Every step here is best-effort. The comment row is already persisted by
// the time routing starts, and nothing that happens here may surface to the
// commenting user or roll the comment back. There is no retry: a failed step
// is logged and is permanent for this comment event.
type CommentNotificationService struct {
	resolver     *EntityResolver
	recipients   *RecipientBuilder
	gate         *PreferenceGate
	tokens       *OptOutTokenService
	mailer       EmailService
	writer       *NotificationWriter
	cache        CacheInvalidator
	deliveryLog  repositories.DeliveryLogRepository
	siteURL      string
	emailWorkers int
}

// NewCommentNotificationService creates a new CommentNotificationService
func NewCommentNotificationService(
	resolver *EntityResolver,
	recipients *RecipientBuilder,
	gate *PreferenceGate,
	tokens *OptOutTokenService,
	mailer EmailService,
	writer *NotificationWriter,
	cache CacheInvalidator,
	deliveryLog repositories.DeliveryLogRepository,
	siteURL string,
) *CommentNotificationService {
	return &CommentNotificationService{
		resolver:     resolver,
		recipients:   recipients,
		gate:         gate,
		tokens:       tokens,
		mailer:       mailer,
		writer:       writer,
		cache:        cache,
		deliveryLog:  deliveryLog,
		siteURL:      strings.TrimRight(siteURL, "/"),
		emailWorkers: defaultEmailWorkers,
	}
}

// RouteNotifications fans the comment out. It never returns an error; the
// caller's request has already succeeded.
func (s *CommentNotificationService) RouteNotifications(ctx context.Context, comment *models.Comment, actor *models.User) {
	resolved, err := s.resolver.Resolve(ctx, comment.EntityType, comment.EntityID, actor.ID)
	if err != nil {
		log.Printf("Comment routing: resolving %s %s failed: %v", comment.EntityType, comment.EntityID, err)
		// The comment still exists; cached pages must recompute regardless
		s.invalidateCache(ctx, comment, nil)
		return
	}

	set := s.recipients.Build(ctx, comment, resolved)
	if len(set.All()) > 0 {
		// In-app records and the email path are independent branches
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.writeInAppNotifications(ctx, comment, actor, resolved, set)
		}()
		go func() {
			defer wg.Done()
			s.dispatchEmails(ctx, comment, actor, resolved, set)
		}()
		wg.Wait()
	}

	s.invalidateCache(ctx, comment, resolved)
}

// writeInAppNotifications persists one record per recipient. The reply
// target gets comment_reply; everyone else gets the entity-specific type.
// Preferences never apply here.
func (s *CommentNotificationService) writeInAppNotifications(ctx context.Context, comment *models.Comment, actor *models.User, resolved *ResolvedEntity, set *RecipientSet) {
	if set.ReplyTarget != nil {
		n := s.buildNotification(comment, actor, resolved, set.ReplyTarget.ID, true)
		if err := s.writer.Write(ctx, n); err != nil {
			log.Printf("Comment routing: in-app write for user %d failed: %v", set.ReplyTarget.ID, err)
		}
	}
	for _, recipient := range set.Primary {
		n := s.buildNotification(comment, actor, resolved, recipient.ID, false)
		if err := s.writer.Write(ctx, n); err != nil {
			log.Printf("Comment routing: in-app write for user %d failed: %v", recipient.ID, err)
		}
	}
}

// dispatchEmails gates all candidates with one batched preference check and
// fans the sends out over a bounded number of workers. One recipient's
// failure never aborts the batch.
func (s *CommentNotificationService) dispatchEmails(ctx context.Context, comment *models.Comment, actor *models.User, resolved *ResolvedEntity, set *RecipientSet) {
	recipients := set.All()
	candidateIDs := make([]uint, len(recipients))
	for i, r := range recipients {
		candidateIDs[i] = r.ID
	}

	eligible, err := s.gate.FilterEligible(ctx, candidateIDs, models.EmailCategoryNotifications)
	if err != nil {
		log.Printf("Comment routing: preference check failed, skipping emails for comment %s: %v", comment.ID, err)
		return
	}

	sem := make(chan struct{}, s.emailWorkers)
	var wg sync.WaitGroup
	for _, recipient := range recipients {
		if !eligible[recipient.ID] {
			continue // opted out; not an error
		}
		isReply := set.ReplyTarget != nil && recipient.ID == set.ReplyTarget.ID

		wg.Add(1)
		sem <- struct{}{}
		go func(recipient models.User, isReply bool) {
			defer wg.Done()
			defer func() { <-sem }()
			s.sendEmail(ctx, comment, actor, resolved, recipient, isReply)
		}(recipient, isReply)
	}
	wg.Wait()
}

func (s *CommentNotificationService) sendEmail(ctx context.Context, comment *models.Comment, actor *models.User, resolved *ResolvedEntity, recipient models.User, isReply bool) {
	// A mint failure degrades to an email without an unsubscribe link
	optOutLink, err := s.tokens.MintURL(recipient.ID, models.EmailCategoryNotifications)
	if err != nil {
		log.Printf("Comment routing: opt-out token for user %d failed: %v", recipient.ID, err)
		optOutLink = ""
	}

	profileLink := ""
	if actor.Nickname != "" {
		profileLink = fmt.Sprintf("%s/u/%s", s.siteURL, actor.Nickname)
	}

	data := CommentEmailData{
		OwnerName:            recipient.Name,
		CommenterName:        actor.Name,
		CommenterNickname:    actor.Nickname,
		CommenterAvatarURL:   actor.AvatarURL,
		CommenterProfileLink: profileLink,
		CommentText:          comment.Content,
		EntityType:           comment.EntityType,
		EntityTitle:          resolved.Title,
		EntityThumbnail:      resolved.ThumbnailURL,
		EntityLink:           resolved.Link,
		OptOutLink:           optOutLink,
		IsReply:              isReply,
	}

	entry := &models.EmailDeliveryLog{
		CommentID:      comment.ID,
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email,
		EmailType:      models.EmailCategoryNotifications,
		Status:         models.DeliveryStatusSent,
	}
	if err := s.mailer.SendCommentEmail(recipient.Email, data); err != nil {
		log.Printf("Comment routing: email to user %d failed: %v", recipient.ID, err)
		entry.Status = models.DeliveryStatusFailed
		entry.Error = err.Error()
	}
	if err := s.deliveryLog.RecordDelivery(ctx, entry); err != nil {
		log.Printf("Comment routing: delivery log for user %d failed: %v", recipient.ID, err)
	}
}

func (s *CommentNotificationService) buildNotification(comment *models.Comment, actor *models.User, resolved *ResolvedEntity, recipientID uint, isReply bool) *models.Notification {
	notificationType := models.NotificationTypeCommentReply
	message := fmt.Sprintf("%s replied to your comment", actor.Name)
	if !isReply {
		switch comment.EntityType {
		case models.EntityTypePhoto:
			notificationType = models.NotificationTypeCommentPhoto
			message = fmt.Sprintf("%s commented on your photo", actor.Name)
		case models.EntityTypeAlbum:
			notificationType = models.NotificationTypeCommentAlbum
			message = fmt.Sprintf("%s commented on your album", actor.Name)
		case models.EntityTypeEvent:
			notificationType = models.NotificationTypeCommentEvent
			message = fmt.Sprintf("%s commented on an event", actor.Name)
		case models.EntityTypeChallenge:
			notificationType = models.NotificationTypeCommentChallenge
			message = fmt.Sprintf("%s commented on a challenge", actor.Name)
		}
	}

	return &models.Notification{
		Type:           notificationType,
		ActorID:        actor.ID,
		RecipientID:    recipientID,
		EntityType:     comment.EntityType,
		EntityID:       comment.EntityID,
		Title:          resolved.Title,
		ThumbnailURL:   resolved.ThumbnailURL,
		Link:           resolved.Link,
		ActorName:      actor.Name,
		ActorNickname:  actor.Nickname,
		ActorAvatarURL: actor.AvatarURL,
		Message:        message,
	}
}

// invalidateCache signals the page caches after routing. Photo and album
// pages are partitioned by the owner's nickname; event and challenge pages
// are not, so those flows invalidate the broader gallery scope.
func (s *CommentNotificationService) invalidateCache(ctx context.Context, comment *models.Comment, resolved *ResolvedEntity) {
	switch comment.EntityType {
	case models.EntityTypePhoto, models.EntityTypeAlbum:
		nickname := ""
		if resolved != nil && resolved.Owner != nil {
			nickname = resolved.Owner.Nickname
		}
		s.cache.InvalidateProfile(ctx, nickname)
	default:
		s.cache.InvalidateGalleries(ctx)
	}
}
