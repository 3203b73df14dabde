package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/qaportal/internal/app"
	"github.com/okian/qaportal/internal/adapters/repository"
	"github.com/okian/qaportal/internal/dashboard"
	"github.com/okian/qaportal/internal/domain/model"
	"github.com/okian/qaportal/internal/session"
	"github.com/okian/qaportal/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func newStarted(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithLogger(logger.Nop()),
		service.WithClock(func() time.Time { return now }),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLogger(logger.Nop()))

		Convey("When it has not been started", func() {
			_, err := svc.Agents(ctx)

			Convey("Then operations fail with ErrNotStarted", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it serves the seed dataset", func() {
				agents, err := svc.Agents(ctx)
				So(err, ShouldBeNil)
				So(len(agents), ShouldEqual, 4)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["dataset"], ShouldResemble, repository.Counts{Agents: 4, QAScores: 24, MeritDemerits: 10, Comments: 5, Goals: 5})
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStarted()
		defer svc.Stop()

		Convey("When asking for Emily Davis' summary", func() {
			sum, err := svc.Summary(ctx, "4")

			Convey("Then derived metrics are returned", func() {
				So(err, ShouldBeNil)
				So(sum.Agent.Name, ShouldEqual, "Emily Davis")
				So(sum.QA.Latest.OverallScore, ShouldBeBetweenOrEqual, 93, 98)
				So(sum.Merit.NetScore, ShouldEqual, 35)
				So(len(sum.Goals), ShouldEqual, 1)
				So(sum.Goals[0].ProgressPercent, ShouldEqual, 100)
			})
		})

		Convey("When listing an agent's records", func() {
			recs, err := svc.AgentRecords(ctx, "1")

			Convey("Then each collection is filtered and ordered", func() {
				So(err, ShouldBeNil)
				So(len(recs.QAScores), ShouldEqual, 6)
				So(recs.QAScores[0].Date, ShouldEqual, model.Date("2024-10-31"))
				So(recs.MeritDemerits[0].ID, ShouldEqual, "md-1-1")
				So(recs.Comments[0].ID, ShouldEqual, "comment-1-1")
				for _, c := range recs.Comments {
					So(c.AgentID, ShouldEqual, "1")
				}
			})
		})

		Convey("When the agent does not exist", func() {
			_, err := svc.Summary(ctx, "99")
			So(errors.Is(err, repository.ErrAgentNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Session(t *testing.T) {
	Convey("Given a started service and a fresh session", t, func() {
		ctx := context.Background()
		svc := newStarted()
		defer svc.Stop()
		sess, err := svc.Session(ctx, "")
		So(err, ShouldBeNil)

		Convey("Then the first agent is selected by default", func() {
			page, err := svc.Page(ctx, sess, dashboard.TabOverview)
			So(err, ShouldBeNil)
			So(page.Selector.Selected.ID, ShouldEqual, "1")
		})

		Convey("When the same id is resolved again", func() {
			again, err := svc.Session(ctx, sess.ID)
			So(err, ShouldBeNil)
			So(again, ShouldEqual, sess)
		})

		Convey("When the picker is opened and an agent selected", func() {
			So(svc.ToggleSelector(ctx, sess), ShouldBeTrue)
			agent, err := svc.Select(ctx, sess, "3")

			Convey("Then the selection changes and the picker closes", func() {
				So(err, ShouldBeNil)
				So(agent.Name, ShouldEqual, "Michael Brown")
				page, _ := svc.Page(ctx, sess, "")
				So(page.Selector.Open, ShouldBeFalse)
				So(page.Selector.Selected.ID, ShouldEqual, "3")
				So(page.Comments.Items[0].Badge.Label, ShouldEqual, "Demerit")
			})
		})

		Convey("When selecting an unknown agent", func() {
			_, err := svc.Select(ctx, sess, "nobody")

			Convey("Then the selection is kept", func() {
				So(errors.Is(err, repository.ErrAgentNotFound), ShouldBeTrue)
				sess.With(func(st *session.State) {
					So(st.Selection.CurrentID(), ShouldEqual, "1")
				})
			})
		})

		Convey("When a reply is drafted and submitted", func() {
			open, err := svc.ToggleReply(ctx, sess, "comment-1-1")
			So(err, ShouldBeNil)
			So(open, ShouldBeTrue)
			So(svc.UpdateDraft(ctx, sess, "comment-1-1", "  Thanks!  "), ShouldBeNil)

			page, _ := svc.Page(ctx, sess, "")
			So(page.Comments.Items[0].Draft.Text, ShouldEqual, "  Thanks!  ")

			resp, err := svc.SubmitReply(ctx, sess, "comment-1-1", nil)

			Convey("Then the reply is accepted and the draft is gone", func() {
				So(err, ShouldBeNil)
				So(resp.Content, ShouldEqual, "Thanks!")
				So(resp.Date, ShouldEqual, model.Date("2025-03-31"))
				So(resp.ID, ShouldNotBeBlank)
				page, _ := svc.Page(ctx, sess, "")
				So(page.Comments.Items[0].Draft.Open, ShouldBeFalse)
			})

			Convey("Then nothing is persisted", func() {
				c, err := svc.SubmitReply(ctx, sess, "comment-1-1", nil)
				So(errors.Is(err, service.ErrEmptyReply), ShouldBeTrue)
				So(c.ID, ShouldBeBlank)
				recs, _ := svc.AgentRecords(ctx, "1")
				So(len(recs.Comments[0].Responses), ShouldEqual, 0)
			})
		})

		Convey("When an empty reply box is toggled twice", func() {
			_, _ = svc.ToggleReply(ctx, sess, "comment-1-2")
			open, err := svc.ToggleReply(ctx, sess, "comment-1-2")

			Convey("Then it closes", func() {
				So(err, ShouldBeNil)
				So(open, ShouldBeFalse)
			})
		})

		Convey("When replying to an unknown comment", func() {
			_, err := svc.ToggleReply(ctx, sess, "missing")
			So(errors.Is(err, repository.ErrCommentNotFound), ShouldBeTrue)
			_, err = svc.SubmitReply(ctx, sess, "missing", nil)
			So(errors.Is(err, repository.ErrCommentNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a configured default agent", t, func() {
		ctx := context.Background()
		svc := newStarted(service.WithDefaultAgent("4"))
		defer svc.Stop()
		sess, _ := svc.Session(ctx, "")

		Convey("Then new sessions start on that agent", func() {
			sess.With(func(st *session.State) {
				So(st.Selection.CurrentID(), ShouldEqual, "4")
			})
		})
	})

	Convey("Given a custom store with no agents", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, repository.Dataset{})
		svc := newStarted(service.WithStore(store))
		defer svc.Stop()
		sess, _ := svc.Session(ctx, "")

		Convey("Then the page degrades to empty panels", func() {
			page, err := svc.Page(ctx, sess, "")
			So(err, ShouldBeNil)
			So(page.Selector.Selected, ShouldBeNil)
			for _, p := range page.Panels() {
				So(p.Empty, ShouldBeTrue)
			}
		})

		Convey("Then the agent list is empty rather than nil", func() {
			agents, err := svc.Agents(ctx)
			So(err, ShouldBeNil)
			So(agents, ShouldNotBeNil)
			So(agents, ShouldBeEmpty)
		})
	})
}

func TestService_DiscardResponse(t *testing.T) {
	Convey("Given a started service with a small reply limit", t, func() {
		ctx := context.Background()
		svc := newStarted(service.WithMaxReplyLength(5))
		defer svc.Stop()

		Convey("Then long replies are rejected", func() {
			_, err := svc.DiscardResponse(ctx, "comment-1-1", "far too long")
			So(errors.Is(err, service.ErrReplyTooLong), ShouldBeTrue)
		})

		Convey("Then blank replies are rejected", func() {
			_, err := svc.DiscardResponse(ctx, "comment-1-1", "   ")
			So(errors.Is(err, service.ErrEmptyReply), ShouldBeTrue)
		})

		Convey("Then short replies are accepted", func() {
			resp, err := svc.DiscardResponse(ctx, "comment-1-1", "ok")
			So(err, ShouldBeNil)
			So(resp.Author, ShouldEqual, "You")
		})
	})
}

// countingStore counts comment lookups.
type countingStore struct {
	repository.Store
	lookups int
}

func (c *countingStore) Comment(ctx context.Context, id string) (model.Comment, error) {
	c.lookups++
	return c.Store.Comment(ctx, id)
}

func TestService_ReplyLookups(t *testing.T) {
	Convey("Given a service over a store that counts comment lookups", t, func() {
		ctx := context.Background()
		store := &countingStore{Store: repository.NewMemoryStore(ctx, repository.Seed(now))}
		svc := newStarted(service.WithStore(store))
		defer svc.Stop()
		sess, _ := svc.Session(ctx, "")

		Convey("When a reply is submitted", func() {
			text := "Will do"
			_, err := svc.SubmitReply(ctx, sess, "comment-1-1", &text)

			Convey("Then the comment is looked up once", func() {
				So(err, ShouldBeNil)
				So(store.lookups, ShouldEqual, 1)
			})
		})

		Convey("When a reply is discarded directly", func() {
			_, err := svc.DiscardResponse(ctx, "comment-1-1", "Will do")
			So(err, ShouldBeNil)
			So(store.lookups, ShouldEqual, 1)
		})
	})
}
