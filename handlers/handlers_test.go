// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"
	"testing"

	"github.com/MaplrCanada/ss-petitions/db"
	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
	"github.com/MaplrCanada/ss-petitions/testutil"
)

var (
	author = petition.Viewer{ID: testutil.AuthorID, Name: "Jane Author"}
	signer = petition.Viewer{ID: testutil.SignerID, Name: "Sam Signer"}
	admin  = petition.Viewer{ID: testutil.AdminID, Name: "Ada Admin", IsAdmin: true}
	nobody = petition.Viewer{}
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Broadcast(e models.Event) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return 1
}

func (n *recordingNotifier) Events() []models.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Event(nil), n.events...)
}

func setupHandler(t *testing.T) (*PetitionHandler, *db.Store, *recordingNotifier) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	notifier := &recordingNotifier{}
	return NewPetitionHandler(store, testutil.GetTestRules(), notifier), store, notifier
}

// request builds a request for viewer with an optional {id} route param.
func request(method, path string, body interface{}, viewer petition.Viewer, id string) *http.Request {
	req := testutil.MakeRequest(method, path, body, nil)
	if id != "" {
		req = testutil.WithURLParam(req, "id", id)
	}
	return testutil.AsViewer(req, viewer)
}
