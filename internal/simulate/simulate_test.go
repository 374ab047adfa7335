package simulate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"djboard/internal/adapters/http/api"
	service "djboard/internal/app"
	"djboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// newTestServer mounts a fresh service behind the real API routes.
func newTestServer(ctx context.Context) *httptest.Server {
	svc := service.New()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux, svc)
	return httptest.NewServer(mux)
}

func TestPlanDeterminism(t *testing.T) {
	Convey("Given two plans built from the same seed", t, func() {
		ctx := context.Background()
		cfg := &Config{Fans: 3, DJs: 2, Tips: 40, Ratings: 20, Seed: 42}
		a := newPlan(ctx, cfg)
		b := newPlan(ctx, cfg)

		Convey("Then they are identical", func() {
			So(b.tips, ShouldResemble, a.tips)
			So(b.ratings, ShouldResemble, a.ratings)
			So(b.djNames, ShouldResemble, a.djNames)
		})

		Convey("And a different seed diverges", func() {
			c := newPlan(ctx, &Config{Fans: 3, DJs: 2, Tips: 40, Ratings: 20, Seed: 43})
			So(c.tips, ShouldNotResemble, a.tips)
		})
	})
}

func TestPlanExpectations(t *testing.T) {
	Convey("Given a plan with declined tips", t, func() {
		p := &plan{
			djNames: []string{"a", "b"},
			tips: []tipTask{
				{fan: 0, dj: 0, amount: 10},
				{fan: 0, dj: 0, amount: 7, decline: true},
				{fan: 0, dj: 1, amount: 5},
			},
			ratings: []ratingTask{
				{fan: 0, dj: 0, stars: 4},
				{fan: 0, dj: 0, stars: 2},
			},
		}

		Convey("When folding it into expectations", func() {
			want := p.expected()

			Convey("Then declined amounts are excluded", func() {
				So(want, ShouldHaveLength, 2)
				So(want[0], ShouldResemble, expectation{tips: 10, ratings: 2, points: 6})
				So(want[1], ShouldResemble, expectation{tips: 5})
			})
		})
	})
}

func TestEntryVerification(t *testing.T) {
	Convey("Given a planned expectation", t, func() {
		exp := expectation{tips: 30, ratings: 2, points: 9}

		Convey("Then a matching entry produces no mismatch", func() {
			e := boardEntry{DJID: "x", TotalTips: 30, TotalRatings: 2, TotalRatingPoints: 9, AvgRating: 4.5}
			So(diffEntry(e, "x", exp), ShouldBeEmpty)
		})

		Convey("Then every drifted field is named", func() {
			e := boardEntry{DJID: "x", TotalTips: 29, TotalRatings: 2, TotalRatingPoints: 9, AvgRating: 4.5}
			msgs := diffEntry(e, "x", exp)
			So(msgs, ShouldHaveLength, 1)
			So(msgs[0], ShouldContainSubstring, "total tips")
		})
	})

	Convey("Given the rank comparator", t, func() {
		Convey("Then tips dominate", func() {
			So(orderedBefore(boardEntry{TotalTips: 10}, boardEntry{TotalTips: 9, AvgRating: 5}), ShouldBeTrue)
			So(orderedBefore(boardEntry{TotalTips: 9}, boardEntry{TotalTips: 10}), ShouldBeFalse)
		})

		Convey("Then average breaks tip ties", func() {
			So(orderedBefore(boardEntry{TotalTips: 10, AvgRating: 4}, boardEntry{TotalTips: 10, AvgRating: 3}), ShouldBeTrue)
			So(orderedBefore(boardEntry{TotalTips: 10, AvgRating: 3}, boardEntry{TotalTips: 10, AvgRating: 4}), ShouldBeFalse)
		})

		Convey("Then id breaks full ties", func() {
			So(orderedBefore(boardEntry{DJID: "a", TotalTips: 10, AvgRating: 4}, boardEntry{DJID: "b", TotalTips: 10, AvgRating: 4}), ShouldBeTrue)
			So(orderedBefore(boardEntry{DJID: "b", TotalTips: 10, AvgRating: 4}, boardEntry{DJID: "a", TotalTips: 10, AvgRating: 4}), ShouldBeFalse)
		})
	})
}

func TestRunAgainstService(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		ts := newTestServer(ctx)
		defer ts.Close()

		Convey("When running a small simulation", func() {
			cfg := &Config{
				BaseURL: ts.URL,
				Fans:    4,
				DJs:     3,
				Tips:    50,
				Ratings: 30,
				Workers: 4,
				Seed:    7,
				TopN:    2,
				Timeout: 10 * time.Second,
			}

			Convey("Then it verifies clean", func() {
				So(Run(ctx, cfg), ShouldBeNil)
			})
		})
	})
}

// stubDisagreeingServer accepts every submission but serves a board that
// matches none of it.
func stubDisagreeingServer() *httptest.Server {
	var seq int64
	created := func(w http.ResponseWriter, format string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, format, atomic.AddInt64(&seq, 1))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, _ *http.Request) {
		created(w, `{"id":"u-%d"}`)
	})
	mux.HandleFunc("/tips", func(w http.ResponseWriter, _ *http.Request) {
		created(w, `{"id":"t-%d"}`)
	})
	mux.HandleFunc("/tips/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/ratings", func(w http.ResponseWriter, _ *http.Request) {
		created(w, `{"id":"r-%d"}`)
	})
	mux.HandleFunc("/leaderboard", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[],"count":0}`)
	})
	mux.HandleFunc("/leaderboard/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.TrimPrefix(r.URL.Path, "/leaderboard/") == "top" {
			fmt.Fprint(w, `{"items":[],"count":0}`)
			return
		}
		fmt.Fprint(w, `{"entry":{"dj_id":""},"rank":1}`)
	})
	return httptest.NewServer(mux)
}

func TestRunDetectsDisagreement(t *testing.T) {
	Convey("Given a service whose board matches nothing it accepted", t, func() {
		ctx := context.Background()
		ts := stubDisagreeingServer()
		defer ts.Close()

		Convey("When running a simulation against it", func() {
			cfg := &Config{
				BaseURL: ts.URL,
				Fans:    2,
				DJs:     2,
				Tips:    10,
				Ratings: 5,
				Workers: 2,
				Seed:    1,
				TopN:    1,
				Timeout: 10 * time.Second,
			}
			err := Run(ctx, cfg)

			Convey("Then the run fails with mismatches", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "mismatch")
			})
		})
	})
}
