package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "djboard/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given a new Tracker", t, func() {
		Convey("When creating a tracker with default options", func() {
			tr := dedupe.NewTracker()

			Convey("Then it should start empty", func() {
				So(tr, ShouldNotBeNil)
				So(tr.Size(), ShouldEqual, 0)
			})
		})

		Convey("When creating a tracker with custom options", func() {
			tr := dedupe.NewTracker(
				dedupe.WithMaxSize(100),
			)

			Convey("Then it should start empty", func() {
				So(tr, ShouldNotBeNil)
				So(tr.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording keys", func() {
			tr := dedupe.NewTracker()

			Convey("And the key is new", func() {
				seen := tr.SeenAndRecord(context.Background(), "key-1")

				Convey("Then it should not have been seen before", func() {
					So(seen, ShouldBeFalse)
					So(tr.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the key is replayed", func() {
				first := tr.SeenAndRecord(context.Background(), "key-1")
				second := tr.SeenAndRecord(context.Background(), "key-1")

				Convey("Then the replay should be reported as seen", func() {
					So(first, ShouldBeFalse)
					So(second, ShouldBeTrue)
					So(tr.Size(), ShouldEqual, 1)
				})
			})

			Convey("And distinct keys are recorded", func() {
				for i := 0; i < 10; i++ {
					seen := tr.SeenAndRecord(context.Background(), fmt.Sprintf("key-%d", i))
					So(seen, ShouldBeFalse)
				}

				Convey("Then all of them should be tracked", func() {
					So(tr.Size(), ShouldEqual, 10)
				})
			})
		})

		Convey("When unrecording a key", func() {
			tr := dedupe.NewTracker()

			seen := tr.SeenAndRecord(context.Background(), "key-1")
			So(seen, ShouldBeFalse)

			tr.Unrecord(context.Background(), "key-1")

			Convey("Then the key can be recorded again", func() {
				So(tr.Size(), ShouldEqual, 0)
				So(tr.SeenAndRecord(context.Background(), "key-1"), ShouldBeFalse)
				So(tr.Size(), ShouldEqual, 1)
			})

			Convey("And unrecording an unknown key is harmless", func() {
				tr.Unrecord(context.Background(), "never-recorded")
				So(tr.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the tracker is bounded", func() {
			tr := dedupe.NewTracker(dedupe.WithMaxSize(3))

			for i := 0; i < 3; i++ {
				So(tr.SeenAndRecord(context.Background(), fmt.Sprintf("key-%d", i)), ShouldBeFalse)
			}

			Convey("Then exceeding the bound evicts the oldest key", func() {
				So(tr.SeenAndRecord(context.Background(), "key-3"), ShouldBeFalse)

				So(tr.Size(), ShouldEqual, 3)
				So(tr.SeenAndRecord(context.Background(), "key-0"), ShouldBeFalse)
			})

			Convey("Then recent keys survive eviction", func() {
				So(tr.SeenAndRecord(context.Background(), "key-3"), ShouldBeFalse)

				So(tr.SeenAndRecord(context.Background(), "key-2"), ShouldBeTrue)
				So(tr.SeenAndRecord(context.Background(), "key-3"), ShouldBeTrue)
			})
		})

		Convey("When the tracker is unbounded", func() {
			tr := dedupe.NewTracker(dedupe.WithMaxSize(0))

			for i := 0; i < 1000; i++ {
				So(tr.SeenAndRecord(context.Background(), fmt.Sprintf("key-%d", i)), ShouldBeFalse)
			}

			Convey("Then nothing is evicted", func() {
				So(tr.Size(), ShouldEqual, 1000)
				So(tr.SeenAndRecord(context.Background(), "key-0"), ShouldBeTrue)
			})
		})

		Convey("When recording concurrently", func() {
			tr := dedupe.NewTracker()

			const workers = 16
			const perWorker = 100

			var wg sync.WaitGroup
			var mu sync.Mutex
			replays := 0

			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						if tr.SeenAndRecord(context.Background(), fmt.Sprintf("key-%d", i)) {
							mu.Lock()
							replays++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each key should be admitted exactly once", func() {
				So(tr.Size(), ShouldEqual, perWorker)
				So(replays, ShouldEqual, (workers-1)*perWorker)
			})
		})
	})
}
