package aur

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ralt/archpkg/internal/fetcher"
	"github.com/ralt/archpkg/internal/models"
	"github.com/ralt/archpkg/internal/resolver"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// infoReply describes how the fake AUR answers one info request
type infoReply struct {
	status int
	body   string
	delay  time.Duration
}

// fakeAUR serves /suggest/<name> and /info/<name> and records requests
type fakeAUR struct {
	*httptest.Server

	suggestStatus int
	suggestBody   string
	infos         map[string]infoReply

	mu       sync.Mutex
	suggests []string
	info     []string
}

func newFakeAUR(t *testing.T, suggestBody string, infos map[string]infoReply) *fakeAUR {
	t.Helper()
	f := &fakeAUR{suggestBody: suggestBody, infos: infos}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAUR) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasPrefix(r.URL.Path, "/suggest/"):
		name := strings.TrimPrefix(r.URL.Path, "/suggest/")
		f.mu.Lock()
		f.suggests = append(f.suggests, name)
		f.mu.Unlock()
		if f.suggestStatus != 0 {
			w.WriteHeader(f.suggestStatus)
			return
		}
		fmt.Fprint(w, f.suggestBody)
	case strings.HasPrefix(r.URL.Path, "/info/"):
		name := strings.TrimPrefix(r.URL.Path, "/info/")
		f.mu.Lock()
		f.info = append(f.info, name)
		f.mu.Unlock()
		reply, ok := f.infos[name]
		if !ok {
			fmt.Fprint(w, `{"version":5,"type":"multiinfo","resultcount":0,"results":[]}`)
			return
		}
		if reply.delay > 0 {
			select {
			case <-time.After(reply.delay):
			case <-r.Context().Done():
				return
			}
		}
		if reply.status != 0 {
			w.WriteHeader(reply.status)
		}
		fmt.Fprint(w, reply.body)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAUR) infoRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.info...)
}

func newResolver(t *testing.T, f *fakeAUR, opts ...Option) resolver.Resolver {
	t.Helper()
	log, _ := test.NewNullLogger()
	client := fetcher.New(
		fetcher.WithHTTPClient(f.Client()),
		fetcher.WithTimeout(2*time.Second),
		fetcher.WithLogger(log),
	)
	return New(client, f.URL, log, opts...)
}

func infoBody(name string, votes string) string {
	return fmt.Sprintf(`{"version":5,"type":"multiinfo","resultcount":1,"results":[{"Name":%q,"Version":"1.0-1","Description":"test package","Maintainer":"someone","NumVotes":%s,"LastModified":1700000000}]}`, name, votes)
}

func ok(name, votes string) infoReply {
	return infoReply{body: infoBody(name, votes)}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		suggestions []string
		want        []string
	}{
		{"no suggestions", "foo", nil, []string{"foo"}},
		{"single suggestion", "foo", []string{"foo-git"}, []string{"foo-git"}},
		{"first is exact match", "foo", []string{"foo", "foo-git", "foo-bin"}, []string{"foo"}},
		{"several suggestions", "foo", []string{"foo-git", "foo-bin"}, []string{"foo-git", "foo-bin"}},
		{"exact match not first", "foo", []string{"foo-bin", "foo"}, []string{"foo-bin", "foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Candidates(tt.query, tt.suggestions))
		})
	}
}

func TestEmptySuggestionsLookUpNameDirectly(t *testing.T) {
	f := newFakeAUR(t, `[]`, map[string]infoReply{
		"yay": ok("yay", "2000"),
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "yay"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "yay", out.Community.Name)
	assert.Equal(t, []string{"yay"}, f.infoRequests())
}

func TestSuggestFailureFallsBackToDirectLookup(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, ""},
		{"not an array", 0, `{"error":"unexpected"}`},
		{"invalid json", 0, `[`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeAUR{
				suggestStatus: tc.status,
				suggestBody:   tc.body,
				infos:         map[string]infoReply{"yay": ok("yay", "10")},
			}
			f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
			t.Cleanup(f.Close)

			out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "yay"})
			require.NotNil(t, out.Community)
			assert.Nil(t, out.Err)
			assert.Equal(t, []string{"yay"}, f.infoRequests())
		})
	}
}

func TestExactFirstSuggestionIsSingleLookup(t *testing.T) {
	f := newFakeAUR(t, `["yay","yay-bin","yay-git"]`, map[string]infoReply{
		"yay":     ok("yay", "10"),
		"yay-bin": ok("yay-bin", "9999"),
		"yay-git": ok("yay-git", "500"),
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "yay"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "yay", out.Community.Name)
	assert.Equal(t, []string{"yay"}, f.infoRequests())
}

func TestMultipleSuggestionsPickMostVotes(t *testing.T) {
	f := newFakeAUR(t, `["nonexistent-xyz-git","nonexistent-xyz-bin"]`, map[string]infoReply{
		"nonexistent-xyz-git": ok("nonexistent-xyz-git", "5"),
		"nonexistent-xyz-bin": ok("nonexistent-xyz-bin", "12"),
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "nonexistent-xyz"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "nonexistent-xyz-bin", out.Community.Name)
	assert.EqualValues(t, 12, out.Community.NumVotes)
	assert.ElementsMatch(t, []string{"nonexistent-xyz-git", "nonexistent-xyz-bin"}, f.infoRequests())
}

func TestVoteParsingDefaults(t *testing.T) {
	f := newFakeAUR(t, `["a","b","c","d"]`, map[string]infoReply{
		"a": ok("a", "null"),
		"b": ok("b", `"7"`),
		"c": ok("c", `"lots"`),
		"d": {body: `{"results":[{"Name":"d"}]}`},
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "x"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "b", out.Community.Name)
}

func TestTieKeepsFirstCandidate(t *testing.T) {
	// The first candidate answers last; order of arrival must not matter
	f := newFakeAUR(t, `["first","second","third"]`, map[string]infoReply{
		"first":  {body: infoBody("first", "42"), delay: 150 * time.Millisecond},
		"second": ok("second", "42"),
		"third":  ok("third", "41"),
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "x"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "first", out.Community.Name)
}

func TestZeroVotesStillWins(t *testing.T) {
	f := newFakeAUR(t, `["a","b"]`, map[string]infoReply{
		"a": {status: http.StatusInternalServerError},
		"b": ok("b", "0"),
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "x"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "b", out.Community.Name)
}

func TestFailingCandidatesDoNotAbortOthers(t *testing.T) {
	f := newFakeAUR(t, `["broken","slow","empty","good","garbage"]`, map[string]infoReply{
		"broken":  {status: http.StatusBadGateway, body: "bad gateway"},
		"slow":    {body: infoBody("slow", "1000"), delay: 5 * time.Second},
		"empty":   {body: `{"results":[]}`},
		"good":    ok("good", "3"),
		"garbage": {body: `{"results":`},
	})

	log, _ := test.NewNullLogger()
	client := fetcher.New(
		fetcher.WithHTTPClient(f.Client()),
		fetcher.WithTimeout(200*time.Millisecond),
		fetcher.WithLogger(log),
	)
	r := New(client, f.URL, log)

	start := time.Now()
	out := r.Resolve(context.Background(), models.Query{Name: "x"})
	elapsed := time.Since(start)

	require.NotNil(t, out.Community)
	assert.Equal(t, "good", out.Community.Name)
	assert.Len(t, f.infoRequests(), 5)
	assert.Less(t, elapsed, 3*time.Second, "the slow candidate must be bounded by the per-request timeout")
}

func TestAllCandidatesFailIsNotFound(t *testing.T) {
	f := newFakeAUR(t, `["a","b"]`, map[string]infoReply{
		"a": {status: http.StatusNotFound},
		"b": {body: `{"results":[]}`},
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "x"})
	assert.False(t, out.Found())
	assert.Nil(t, out.Err)
}

func TestSingleCandidateFailureIsNotFound(t *testing.T) {
	f := newFakeAUR(t, `[]`, map[string]infoReply{
		"x": {body: `{"version":5,"type":"error","resultcount":0,"results":[],"error":"Incorrect request type specified."}`},
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "x"})
	assert.False(t, out.Found())
}

func TestMalformedOutOfDateStillFound(t *testing.T) {
	f := newFakeAUR(t, `[]`, map[string]infoReply{
		"pkg": {body: `{"results":[{"Name":"pkg","Version":"1-1","OutOfDate":"not-a-time","NumVotes":3,"Maintainer":null,"CoMaintainers":null}]}`},
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "pkg"})
	require.NotNil(t, out.Community)
	assert.True(t, out.Community.OutOfDate.IsZero())
	assert.True(t, out.Community.Orphaned())
	assert.Empty(t, out.Community.CoMaintainers)
}

func TestInfoRequestsRunConcurrently(t *testing.T) {
	const n = 4

	var (
		mu      sync.Mutex
		arrived int
		all     = make(chan struct{})
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/suggest/") {
			fmt.Fprint(w, `["c0","c1","c2","c3"]`)
			return
		}
		mu.Lock()
		arrived++
		if arrived == n {
			close(all)
		}
		mu.Unlock()

		// Every request waits until all of them are in flight
		select {
		case <-all:
		case <-time.After(3 * time.Second):
			http.Error(w, "requests were not concurrent", http.StatusRequestTimeout)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/info/")
		fmt.Fprint(w, infoBody(name, fmt.Sprint(len(name))))
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	client := fetcher.New(fetcher.WithHTTPClient(srv.Client()), fetcher.WithLogger(log))
	out := New(client, srv.URL, log).Resolve(context.Background(), models.Query{Name: "c"})

	require.NotNil(t, out.Community, "fan-out did not issue the info requests in parallel")
	assert.Equal(t, "c0", out.Community.Name)
}

func TestMaxConcurrentStillFetchesEveryCandidate(t *testing.T) {
	f := newFakeAUR(t, `["a","b","c","d","e"]`, map[string]infoReply{
		"a": ok("a", "1"),
		"b": ok("b", "2"),
		"c": ok("c", "5"),
		"d": ok("d", "4"),
		"e": ok("e", "3"),
	})

	out := newResolver(t, f, WithMaxConcurrent(2)).Resolve(context.Background(), models.Query{Name: "x"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "c", out.Community.Name)
	assert.Len(t, f.infoRequests(), 5)
}

func TestNamesArePathEscaped(t *testing.T) {
	f := newFakeAUR(t, `[]`, map[string]infoReply{
		"c++/lib": ok("c++/lib", "1"),
	})

	out := newResolver(t, f).Resolve(context.Background(), models.Query{Name: "c++/lib"})
	require.NotNil(t, out.Community)
	assert.Equal(t, "c++/lib", out.Community.Name)
}

func TestGetSource(t *testing.T) {
	assert.Equal(t, resolver.SourceAUR, New(fetcher.New(), "", nil).GetSource())
}
