package a2a

import (
	"context"
	"errors"
	"fmt"
	"strings"

	a2ago "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2aclient"
	"github.com/a2aproject/a2a-go/a2aclient/agentcard"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/beachparty/agent"
	"github.com/hupe1980/beachparty/logging"
)

// ErrNoPeers is returned by DialPeers when no peer could be reached.
var ErrNoPeers = errors.New("no peer agent reachable")

// messageSender is the part of *a2aclient.Client used to ask a peer.
type messageSender interface {
	SendMessage(ctx context.Context, params *a2ago.MessageSendParams) (a2ago.SendMessageResult, error)
}

// Peer is a remote agent the host can consult.
type Peer struct {
	Name   string
	sender messageSender
	close  func() error
}

// NewPeer creates a Peer on top of an existing A2A client.
func NewPeer(name string, client *a2aclient.Client) Peer {
	return Peer{Name: name, sender: client, close: client.Destroy}
}

// DialPeers resolves the agent card behind each url and connects to it.
// Unreachable peers are logged and skipped; ErrNoPeers is returned only when
// none could be reached.
func DialPeers(ctx context.Context, urls []string, logger logging.Logger) ([]Peer, error) {
	logger = logging.OrNoOp(logger)

	var peers []Peer
	for _, url := range urls {
		card, err := agentcard.DefaultResolver.Resolve(ctx, url)
		if err != nil {
			logger.Warn("a2a.peer.resolve_failed", "url", url, "error", err.Error())
			continue
		}

		client, err := a2aclient.NewFromCard(ctx, card)
		if err != nil {
			logger.Warn("a2a.peer.connect_failed", "url", url, "error", err.Error())
			continue
		}

		logger.Info("a2a.peer.connected", "url", url, "peer", card.Name)
		peers = append(peers, NewPeer(card.Name, client))
	}

	if len(urls) > 0 && len(peers) == 0 {
		return nil, ErrNoPeers
	}
	return peers, nil
}

// RemoteAgents asks every peer the same question and joins their answers.
// It implements agent.Retriever for the host agent.
type RemoteAgents struct {
	peers  []Peer
	logger logging.Logger
}

var _ agent.Retriever = (*RemoteAgents)(nil)

// NewRemoteAgents creates a retriever over peers.
func NewRemoteAgents(peers []Peer, logger logging.Logger) *RemoteAgents {
	return &RemoteAgents{peers: peers, logger: logging.OrNoOp(logger)}
}

// Retrieve implements agent.Retriever. Peers are asked concurrently; failing
// peers are skipped unless every peer failed.
func (r *RemoteAgents) Retrieve(ctx context.Context, query string) (string, error) {
	if len(r.peers) == 0 {
		return "", nil
	}

	answers := make([]string, len(r.peers))
	errs := make([]error, len(r.peers))

	var g errgroup.Group
	for i, p := range r.peers {
		g.Go(func() error {
			text, err := ask(ctx, p, query)
			if err != nil {
				r.logger.Warn("a2a.peer.failed", "peer", p.Name, "error", err.Error())
				errs[i] = fmt.Errorf("%s: %w", p.Name, err)
				return nil
			}
			answers[i] = text
			return nil
		})
	}
	_ = g.Wait()

	var (
		sources []agent.Source
		failed  []error
	)
	for i, p := range r.peers {
		if errs[i] != nil {
			failed = append(failed, errs[i])
			continue
		}
		if strings.TrimSpace(answers[i]) != "" {
			sources = append(sources, agent.Source{Name: p.Name, Text: answers[i]})
		}
	}

	if len(failed) == len(r.peers) {
		return "", errors.Join(failed...)
	}

	return agent.JoinSources(sources), nil
}

// Close releases every peer connection.
func (r *RemoteAgents) Close() error {
	var errs []error
	for _, p := range r.peers {
		if p.close == nil {
			continue
		}
		if err := p.close(); err != nil {
			errs = append(errs, fmt.Errorf("close peer %s: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}

func ask(ctx context.Context, p Peer, query string) (string, error) {
	msg := a2ago.NewMessage(a2ago.MessageRoleUser, a2ago.TextPart{Text: query})

	res, err := p.sender.SendMessage(ctx, &a2ago.MessageSendParams{Message: msg})
	if err != nil {
		return "", err
	}

	return ResultText(res), nil
}

// ResultText extracts the answer from a send result: the text of a direct
// message, or the artifacts of a task with its status message as fallback.
func ResultText(res a2ago.SendMessageResult) string {
	switch r := res.(type) {
	case *a2ago.Message:
		return MessageText(r)
	case *a2ago.Task:
		var texts []string
		for _, a := range r.Artifacts {
			if a == nil {
				continue
			}
			if t := partsText(a.Parts); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n")
		}
		return MessageText(r.Status.Message)
	default:
		return ""
	}
}
