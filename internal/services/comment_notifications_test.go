package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shutterfolk/backend/internal/models"
)

type routingFixture struct {
	users         *fakeUserRepo
	comments      *fakeCommentRepo
	photos        *fakePhotoRepo
	albums        *fakeAlbumRepo
	events        *fakeEventRepo
	challenges    *fakeChallengeRepo
	prefs         *fakePreferenceRepo
	notifications *fakeNotificationRepo
	deliveries    *fakeDeliveryLogRepo
	mailer        *recordingEmailService
	cache         *recordingCache
	svc           *CommentNotificationService
}

func newRoutingFixture() *routingFixture {
	f := &routingFixture{
		users:         newFakeUserRepo(),
		comments:      newFakeCommentRepo(),
		photos:        newFakePhotoRepo(),
		albums:        newFakeAlbumRepo(),
		events:        newFakeEventRepo(),
		challenges:    newFakeChallengeRepo(),
		prefs:         newFakePreferenceRepo(),
		notifications: &fakeNotificationRepo{},
		deliveries:    &fakeDeliveryLogRepo{},
		mailer:        newRecordingEmailService(),
		cache:         &recordingCache{},
	}
	f.prefs.addCategory(1, models.EmailCategoryNotifications)

	resolver := NewEntityResolver(f.photos, f.albums, f.events, f.challenges, f.users, testSiteURL)
	recipients := NewRecipientBuilder(f.comments, f.users)
	gate := NewPreferenceGate(f.prefs)
	tokens := NewOptOutTokenService("test-secret", testSiteURL)
	writer := NewNotificationWriter(f.notifications, nil)

	f.svc = NewCommentNotificationService(
		resolver, recipients, gate, tokens, f.mailer, writer, f.cache, f.deliveries, testSiteURL,
	)
	return f
}

func (f *routingFixture) addUser(u *models.User) *models.User {
	f.users.users[u.ID] = u
	return u
}

func TestRoutePhotoCommentNotifiesOwnerInAppAndEmail(t *testing.T) {
	f := newRoutingFixture()
	owner := f.addUser(&models.User{ID: 1, Name: "Ansel", Nickname: "ansel", Email: "ansel@example.com"})
	actor := f.addUser(&models.User{ID: 2, Name: "Dorothea", Nickname: "dorothea"})
	f.photos.photos["p1"] = &models.Photo{ID: "p1", UserID: owner.ID, Title: "Moonrise"}

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypePhoto, EntityID: "p1", UserID: actor.ID, Content: "Stunning."}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	inApp := f.notifications.forRecipient(owner.ID)
	if len(inApp) != 1 {
		t.Fatalf("expected one in-app notification for the owner, got %d", len(inApp))
	}
	if inApp[0].Type != models.NotificationTypeCommentPhoto {
		t.Errorf("expected type %q, got %q", models.NotificationTypeCommentPhoto, inApp[0].Type)
	}
	if inApp[0].ActorName != "Dorothea" {
		t.Errorf("expected actor name on the record, got %q", inApp[0].ActorName)
	}

	sent := f.mailer.sentTo()
	if len(sent) != 1 || sent[0] != owner.Email {
		t.Fatalf("expected one email to the owner, got %v", sent)
	}

	entries, _ := f.deliveries.GetByCommentID(context.Background(), "c1")
	if len(entries) != 1 || entries[0].Status != models.DeliveryStatusSent {
		t.Fatalf("expected one sent delivery log entry, got %+v", entries)
	}
}

func TestRouteOptedOutOwnerStillGetsInAppNotification(t *testing.T) {
	f := newRoutingFixture()
	owner := f.addUser(&models.User{ID: 1, Email: "owner@example.com"})
	actor := f.addUser(&models.User{ID: 2})
	f.photos.photos["p1"] = &models.Photo{ID: "p1", UserID: owner.ID}
	f.prefs.setOptOut(1, owner.ID, true)

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypePhoto, EntityID: "p1", UserID: actor.ID}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	if len(f.mailer.sentTo()) != 0 {
		t.Errorf("opted-out owner must not receive email, got %v", f.mailer.sentTo())
	}
	// Preferences gate email only
	if len(f.notifications.forRecipient(owner.ID)) != 1 {
		t.Errorf("in-app notification must be written regardless of email preferences")
	}
	entries, _ := f.deliveries.GetByCommentID(context.Background(), "c1")
	if len(entries) != 0 {
		t.Errorf("a silently skipped recipient is not a delivery, got %+v", entries)
	}
}

func TestRouteReplyOnPhotoNotifiesOnlyParentAuthor(t *testing.T) {
	f := newRoutingFixture()
	owner := f.addUser(&models.User{ID: 1, Email: "owner@example.com"})
	parentAuthor := f.addUser(&models.User{ID: 3, Name: "Parent", Email: "parent@example.com"})
	actor := f.addUser(&models.User{ID: 2, Name: "Actor"})
	f.photos.photos["p1"] = &models.Photo{ID: "p1", UserID: owner.ID}
	parentID := "parent"
	f.comments.comments[parentID] = &models.Comment{ID: parentID, EntityType: models.EntityTypePhoto, EntityID: "p1", UserID: parentAuthor.ID}

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypePhoto, EntityID: "p1", UserID: actor.ID, ParentID: &parentID}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	if len(f.notifications.forRecipient(owner.ID)) != 0 {
		t.Errorf("the reply supersedes the owner notification")
	}
	inApp := f.notifications.forRecipient(parentAuthor.ID)
	if len(inApp) != 1 || inApp[0].Type != models.NotificationTypeCommentReply {
		t.Fatalf("expected one reply notification, got %+v", inApp)
	}
	sent := f.mailer.sentTo()
	if len(sent) != 1 || sent[0] != parentAuthor.Email {
		t.Fatalf("expected one email to the parent author, got %v", sent)
	}
}

func TestRouteEventCommentFansOutToAdmins(t *testing.T) {
	f := newRoutingFixture()
	admin1 := f.addUser(&models.User{ID: 10, IsAdmin: true, Email: "a1@example.com"})
	admin2 := f.addUser(&models.User{ID: 11, IsAdmin: true, Email: "a2@example.com"})
	actor := f.addUser(&models.User{ID: 2})
	f.events.events[7] = &models.Event{ID: 7, Slug: "meetup", Title: "Meetup"}

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypeEvent, EntityID: "7", UserID: actor.ID}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	for _, admin := range []*models.User{admin1, admin2} {
		inApp := f.notifications.forRecipient(admin.ID)
		if len(inApp) != 1 || inApp[0].Type != models.NotificationTypeCommentEvent {
			t.Errorf("expected one event notification for admin %d, got %+v", admin.ID, inApp)
		}
	}
	if len(f.mailer.sentTo()) != 2 {
		t.Errorf("expected both admins emailed, got %v", f.mailer.sentTo())
	}
	if f.cache.galleries != 1 {
		t.Errorf("event comments must invalidate the gallery caches, got %d", f.cache.galleries)
	}
}

func TestRouteEmailFailureDoesNotAbortBatch(t *testing.T) {
	f := newRoutingFixture()
	f.addUser(&models.User{ID: 10, IsAdmin: true, Email: "broken@example.com"})
	f.addUser(&models.User{ID: 11, IsAdmin: true, Email: "fine@example.com"})
	actor := f.addUser(&models.User{ID: 2})
	f.challenges.challenges["ch1"] = &models.Challenge{ID: "ch1", Slug: "macro", Title: "Macro"}
	f.mailer.failFor["broken@example.com"] = true

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypeChallenge, EntityID: "ch1", UserID: actor.ID}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	sent := f.mailer.sentTo()
	if len(sent) != 1 || sent[0] != "fine@example.com" {
		t.Fatalf("the healthy recipient must still be emailed, got %v", sent)
	}

	entries, _ := f.deliveries.GetByCommentID(context.Background(), "c1")
	if len(entries) != 2 {
		t.Fatalf("expected two delivery log entries, got %d", len(entries))
	}
	statuses := map[string]int{}
	for _, e := range entries {
		statuses[e.Status]++
	}
	if statuses[models.DeliveryStatusSent] != 1 || statuses[models.DeliveryStatusFailed] != 1 {
		t.Errorf("expected one sent and one failed entry, got %v", statuses)
	}
}

func TestRouteMissingEntityStillInvalidatesCache(t *testing.T) {
	f := newRoutingFixture()
	actor := f.addUser(&models.User{ID: 2})

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypePhoto, EntityID: "gone", UserID: actor.ID}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	if len(f.mailer.sentTo()) != 0 || len(f.notifications.created) != 0 {
		t.Errorf("an unresolvable entity must produce no notifications")
	}
	// The comment row exists, so cached pages still need recomputing
	if len(f.cache.profiles) != 1 {
		t.Errorf("expected one cache invalidation, got %d", len(f.cache.profiles))
	}
}

func TestRoutePhotoCommentInvalidatesOwnerProfileCache(t *testing.T) {
	f := newRoutingFixture()
	owner := f.addUser(&models.User{ID: 1, Nickname: "ansel", Email: "owner@example.com"})
	actor := f.addUser(&models.User{ID: 2})
	f.photos.photos["p1"] = &models.Photo{ID: "p1", UserID: owner.ID}

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypePhoto, EntityID: "p1", UserID: actor.ID}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	if len(f.cache.profiles) != 1 || f.cache.profiles[0] != "ansel" {
		t.Errorf("expected profile invalidation for ansel, got %v", f.cache.profiles)
	}
}

func TestRouteEmailCarriesUnsubscribeLink(t *testing.T) {
	f := newRoutingFixture()
	owner := f.addUser(&models.User{ID: 1, Email: "owner@example.com"})
	actor := f.addUser(&models.User{ID: 2, Name: "Actor"})
	f.photos.photos["p1"] = &models.Photo{ID: "p1", UserID: owner.ID}

	var captured CommentEmailData
	mailer := &capturingEmailService{inner: f.mailer, captured: &captured}
	f.svc.mailer = mailer

	comment := &models.Comment{ID: "c1", EntityType: models.EntityTypePhoto, EntityID: "p1", UserID: actor.ID}
	f.svc.RouteNotifications(context.Background(), comment, actor)

	if !strings.HasPrefix(captured.OptOutLink, testSiteURL+"/api/v1/unsubscribe/") {
		t.Fatalf("expected an unsubscribe link, got %q", captured.OptOutLink)
	}

	tokens := NewOptOutTokenService("test-secret", testSiteURL)
	payload, err := tokens.Decrypt(strings.TrimPrefix(captured.OptOutLink, testSiteURL+"/api/v1/unsubscribe/"))
	if err != nil {
		t.Fatalf("unsubscribe token must decrypt: %v", err)
	}
	if payload.UserID != owner.ID || payload.EmailType != models.EmailCategoryNotifications {
		t.Errorf("token must identify the recipient and category, got %+v", payload)
	}
}

type capturingEmailService struct {
	inner    EmailService
	captured *CommentEmailData
}

func (s *capturingEmailService) SendCommentEmail(to string, data CommentEmailData) error {
	*s.captured = data
	return s.inner.SendCommentEmail(to, data)
}
