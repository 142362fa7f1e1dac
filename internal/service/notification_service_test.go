package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/config"
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
)

type notificationFixture struct {
	svc           *NotificationService
	notifications *fakeNotificationRepo
	watchers      *fakeWatcherRepo
	comments      *fakeCommentRepo
	confirmations *fakeConfirmationRepo
	employees     *fakeEmployeeRepo
	audits        *fakeAuditRepo
	dispatcher    *syncDispatcher
}

func newNotificationFixture(staff ...domain.Employee) *notificationFixture {
	fx := &notificationFixture{
		notifications: newFakeNotificationRepo(),
		watchers:      newFakeWatcherRepo(),
		comments:      newFakeCommentRepo(),
		confirmations: newFakeConfirmationRepo(),
		employees:     newFakeEmployeeRepo(staff...),
		audits:        newFakeAuditRepo(),
		dispatcher:    newSyncDispatcher(),
	}
	logger := zap.NewNop()
	fx.svc = NewNotificationService(NotificationDependencies{
		NotificationRepo: fx.notifications,
		WatcherRepo:      fx.watchers,
		CommentRepo:      fx.comments,
		ConfirmationRepo: fx.confirmations,
		EmployeeRepo:     fx.employees,
		Audit:            NewAuditService(fx.audits, logger),
		Dispatcher:       fx.dispatcher,
		Logger:           logger,
		Config:           config.NotificationConfig{DedupWindowMinutes: 5},
	})
	fx.svc.RegisterHandlers()
	return fx
}

func auditID(id string) *string { return &id }

func TestDedupExactByAuditID(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()
	n := domain.Notification{
		RecipientID: "e1",
		Type:        domain.NotifyApprovalRequested,
		Title:       "New ticket awaiting appointment approval",
		AuditID:     auditID("au1"),
	}

	fx.svc.NotifyManyDeduped(ctx, []domain.Notification{n})
	fx.svc.NotifyManyDeduped(ctx, []domain.Notification{n})

	assert.Len(t, fx.notifications.forRecipient("e1"), 1)
}

func TestDedupWindowFallbackWithoutAuditID(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()
	ticketID := "t1"
	n := domain.Notification{
		RecipientID: "e1",
		Type:        domain.NotifyWatchedTicket,
		Title:       "Activity on a watched ticket",
		TicketID:    &ticketID,
	}

	fx.svc.NotifyManyDeduped(ctx, []domain.Notification{n})
	fx.svc.NotifyManyDeduped(ctx, []domain.Notification{n})

	assert.Len(t, fx.notifications.forRecipient("e1"), 1)
}

func TestDedupDistinguishesRecipients(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()
	a := domain.Notification{RecipientID: "e1", Type: domain.NotifyMention, Title: "You were mentioned in a comment", AuditID: auditID("au1")}
	b := a
	b.RecipientID = "e2"

	fx.svc.NotifyManyDeduped(ctx, []domain.Notification{a, b})

	assert.Len(t, fx.notifications.forRecipient("e1"), 1)
	assert.Len(t, fx.notifications.forRecipient("e2"), 1)
}

func TestTicketCreatedNotifiesApproversExceptCreator(t *testing.T) {
	fx := newNotificationFixture(
		domain.Employee{ID: "appr1", Level: domain.LevelApprover, Active: true},
		domain.Employee{ID: "admin1", Level: domain.LevelSuperadmin, Active: true},
		domain.Employee{ID: "appr2", Level: domain.LevelApprover, Active: false},
		domain.Employee{ID: "tech1", Level: domain.LevelTechnician, Active: true},
	)
	ctx := context.Background()

	require.NoError(t, fx.dispatcher.Publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "t1",
		ActorID:  "appr1",
		Payload: events.TicketCreatedPayload{
			CreatorID:  "appr1",
			AssignerID: "appr1",
			AuditID:    "au1",
			SiteName:   "Acme HQ",
		},
	}))

	assert.Empty(t, fx.notifications.forRecipient("appr1"), "creator is not notified")
	assert.Empty(t, fx.notifications.forRecipient("appr2"), "inactive approver is not notified")
	assert.Empty(t, fx.notifications.forRecipient("tech1"))
	got := fx.notifications.forRecipient("admin1")
	require.Len(t, got, 1)
	assert.Equal(t, domain.NotifyApprovalRequested, got[0].Type)
}

func TestUnapprovalNotifiesLastApproverAndConfirmedTechnicians(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()
	require.NoError(t, fx.audits.Create(ctx, &domain.AuditEntry{
		TicketID: "t1", Action: domain.AuditApproved, ChangedByID: "appr1",
	}))
	date, _ := time.Parse(domain.DateOnly, "2026-09-15")
	require.NoError(t, fx.confirmations.Insert(ctx, []domain.TechnicianConfirmation{
		{TicketID: "t1", EmployeeID: "e1", ConfirmedByID: "disp1", ConfirmationDate: date},
		{TicketID: "t1", EmployeeID: "disp1", ConfirmedByID: "disp1", ConfirmationDate: date},
	}))

	require.NoError(t, fx.dispatcher.Publish(ctx, events.Event{
		Type:     events.EventTicketUnapproved,
		TicketID: "t1",
		ActorID:  "disp1",
		Payload: events.TicketUnapprovedPayload{
			EditorID: "disp1",
			AuditID:  "au-un",
			Auto:     true,
		},
	}))

	require.Len(t, fx.notifications.forRecipient("appr1"), 1)
	assert.Equal(t, domain.NotifyAppointmentUnapproved, fx.notifications.forRecipient("appr1")[0].Type)
	assert.Len(t, fx.notifications.forRecipient("e1"), 1)
	assert.Empty(t, fx.notifications.forRecipient("disp1"), "the editor is never notified about their own edit")
}

func TestApprovalNotifiesCreatorOnly(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()

	require.NoError(t, fx.dispatcher.Publish(ctx, events.Event{
		Type:     events.EventAppointmentApproved,
		TicketID: "t1",
		ActorID:  "appr1",
		Payload: events.AppointmentApprovedPayload{
			ApproverID: "appr1",
			CreatorID:  "disp1",
			AuditID:    "au2",
		},
	}))

	require.Len(t, fx.notifications.forRecipient("disp1"), 1)
	assert.Equal(t, domain.NotifyAppointmentApproved, fx.notifications.forRecipient("disp1")[0].Type)

	// Self-approval produces nothing.
	require.NoError(t, fx.dispatcher.Publish(ctx, events.Event{
		Type:     events.EventAppointmentApproved,
		TicketID: "t2",
		ActorID:  "appr1",
		Payload: events.AppointmentApprovedPayload{
			ApproverID: "appr1",
			CreatorID:  "appr1",
			AuditID:    "au3",
		},
	}))
	assert.Empty(t, fx.notifications.forRecipient("appr1"))
}

func TestTechniciansConfirmedNotifiesEachExceptConfirmer(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()

	require.NoError(t, fx.dispatcher.Publish(ctx, events.Event{
		Type:     events.EventTechniciansConfirmed,
		TicketID: "t1",
		ActorID:  "disp1",
		Payload: events.TechniciansConfirmedPayload{
			ConfirmedByID: "disp1",
			AuditID:       "au4",
			Date:          time.Now(),
			Technicians:   []domain.EmployeeRef{{ID: "e1"}, {ID: "disp1"}, {ID: "e2"}},
		},
	}))

	assert.Len(t, fx.notifications.forRecipient("e1"), 1)
	assert.Len(t, fx.notifications.forRecipient("e2"), 1)
	assert.Empty(t, fx.notifications.forRecipient("disp1"))
}

func TestCommentFanoutExcludesDedicatedFromBroadcast(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()
	// e1 both commented and watches; e2 only watches; author watches too.
	fx.comments.commenters["t1"] = []string{"e1", "author"}
	for _, employeeID := range []string{"e1", "e2", "author"} {
		require.NoError(t, fx.watchers.Upsert(ctx, &domain.Watcher{
			TicketID: "t1", EmployeeID: employeeID, AddedByID: "author", Source: domain.WatcherManual,
		}))
	}

	require.NoError(t, fx.dispatcher.Publish(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: "t1",
		ActorID:  "author",
		Payload: events.CommentAddedPayload{
			CommentID:    "cm1",
			AuditID:      "au5",
			BodyPreview:  "parts arrived",
			MentionedIDs: []string{"e3", "author"},
		},
	}))

	e1 := fx.notifications.forRecipient("e1")
	require.Len(t, e1, 1, "dedicated comment notification replaces the watcher broadcast")
	assert.Equal(t, domain.NotifyNewComment, e1[0].Type)

	e2 := fx.notifications.forRecipient("e2")
	require.Len(t, e2, 1)
	assert.Equal(t, domain.NotifyWatchedTicket, e2[0].Type)

	e3 := fx.notifications.forRecipient("e3")
	require.Len(t, e3, 1)
	assert.Equal(t, domain.NotifyMention, e3[0].Type)

	assert.Empty(t, fx.notifications.forRecipient("author"))
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()
	n := domain.Notification{RecipientID: "e1", Type: domain.NotifyNewComment, Title: "x"}
	require.NoError(t, fx.notifications.Insert(ctx, &n))

	err := fx.svc.MarkRead(ctx, n.ID, "someone-else")
	assert.Error(t, err)

	require.NoError(t, fx.svc.MarkRead(ctx, n.ID, "e1"))
	list, err := fx.svc.ListByRecipient(ctx, "e1", true, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = fx.svc.ListByRecipient(ctx, "e1", false, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
	assert.NotNil(t, list[0].ReadAt)
}

func TestMarkAllRead(t *testing.T) {
	fx := newNotificationFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		n := domain.Notification{RecipientID: "e1", Type: domain.NotifyNewComment, Title: "x"}
		require.NoError(t, fx.notifications.Insert(ctx, &n))
	}
	require.NoError(t, fx.svc.MarkAllRead(ctx, "e1"))
	list, err := fx.svc.ListByRecipient(ctx, "e1", true, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
