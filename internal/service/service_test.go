package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenirmoveis/assistant/internal/analytics"
	"github.com/zenirmoveis/assistant/internal/events"
	"github.com/zenirmoveis/assistant/internal/llm"
	"github.com/zenirmoveis/assistant/internal/models"
	"github.com/zenirmoveis/assistant/internal/repo"
	"github.com/zenirmoveis/assistant/internal/repo/repotest"
)

type fakePrompter struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakePrompter) Complete(_ context.Context, prompt string) (*llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.reply, Model: "test-model"}, nil
}

type fakePublisher struct {
	keys   []string
	events []any
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, key string, event any) error {
	f.keys = append(f.keys, key)
	f.events = append(f.events, event)
	return f.err
}

type fakeIndexer struct {
	docs []analytics.SentimentDocument
	err  error
}

func (f *fakeIndexer) IndexSentiment(_ context.Context, doc analytics.SentimentDocument) error {
	f.docs = append(f.docs, doc)
	return f.err
}

func upstreamErr() error {
	return fmt.Errorf("%w: %w", llm.ErrUpstream, &llm.APIError{StatusCode: 401, Type: "invalid_request_error", Message: "Invalid API Key"})
}

func TestSentimentPrompt(t *testing.T) {
	t.Parallel()

	got := SentimentPrompt("O atendimento foi péssimo, muito demorado!")
	assert.Equal(t,
		"Analise o sentimento do seguinte texto em português brasileiro de um cliente: "+
			"'O atendimento foi péssimo, muito demorado!'. Retorne 'positivo', 'neutro' ou 'negativo'.",
		got)
}

func TestCartRecoveryPrompt(t *testing.T) {
	t.Parallel()

	got := CartRecoveryPrompt("Maria", "Sofá retrátil", CopyOffer{})
	assert.Contains(t, got, "para Maria que deixou o Sofá retrátil no carrinho")
	assert.Contains(t, got, DefaultCartURLBase)
	assert.Contains(t, got, "5% chamado ZENIR5")

	got = CartRecoveryPrompt("Maria", "Sofá", CopyOffer{CartURLBase: "https://loja.test/c", CouponCode: "VOLTA5"})
	assert.Contains(t, got, "https://loja.test/c")
	assert.Contains(t, got, "VOLTA5")
	assert.NotContains(t, got, DefaultCouponCode)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{reply: "negativo"}
	pub := &fakePublisher{}
	idx := &fakeIndexer{}
	svc := &SentimentService{LLM: p, Events: pub, Index: idx}

	res, err := svc.Analyze(context.Background(), "O atendimento foi péssimo, muito demorado!")
	require.NoError(t, err)
	assert.Equal(t, "negativo", res.Sentiment)
	assert.Equal(t, "test-model", res.Model)

	require.Len(t, p.prompts, 1)
	assert.Equal(t, SentimentPrompt("O atendimento foi péssimo, muito demorado!"), p.prompts[0])

	require.Len(t, pub.events, 1)
	ev, ok := pub.events[0].(events.SentimentAnalyzed)
	require.True(t, ok)
	assert.Equal(t, "negativo", ev.Sentiment)
	assert.Equal(t, 42, ev.TextLength)

	require.Len(t, idx.docs, 1)
	assert.Equal(t, "negativo", idx.docs[0].Sentiment)
	assert.Equal(t, 42, idx.docs[0].TextLength)
	assert.NotEmpty(t, idx.docs[0].ID)

	raw, err := json.Marshal(idx.docs[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "atendimento")
}

func TestAnalyze_SinkFailuresAreIgnored(t *testing.T) {
	t.Parallel()

	svc := &SentimentService{
		LLM:    &fakePrompter{reply: "positivo"},
		Events: &fakePublisher{err: errors.New("broker down")},
		Index:  &fakeIndexer{err: errors.New("cluster red")},
	}

	res, err := svc.Analyze(context.Background(), "Adorei o sofá!")
	require.NoError(t, err)
	assert.Equal(t, "positivo", res.Sentiment)
}

func TestAnalyze_NilSinks(t *testing.T) {
	t.Parallel()

	svc := &SentimentService{LLM: &fakePrompter{reply: "neutro"}}
	res, err := svc.Analyze(context.Background(), "Recebi o pedido.")
	require.NoError(t, err)
	assert.Equal(t, "neutro", res.Sentiment)
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{reply: "x"}
	svc := &SentimentService{LLM: p}
	_, err := svc.Analyze(context.Background(), "   ")
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, p.prompts)

	pub := &fakePublisher{}
	svc = &SentimentService{LLM: &fakePrompter{err: upstreamErr()}, Events: pub}
	_, err = svc.Analyze(context.Background(), "texto")
	require.ErrorIs(t, err, llm.ErrUpstream)
	assert.Empty(t, pub.events)
}

func newRecovery(t *testing.T, p Prompter, pub Publisher) (*RecoveryService, *repo.GormRepo) {
	t.Helper()
	r := &repo.GormRepo{DB: repotest.NewSQLite(t)}
	return &RecoveryService{Store: r, LLM: p, Events: pub}, r
}

func validInput() RecoveryInput {
	return RecoveryInput{
		ClientID:           "1212",
		ClientName:         "Maria",
		Email:              "maria@provedor.com",
		ProductDescription: "Sofá retrátil 3 lugares",
	}
}

func TestRecover(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{reply: "Maria, seu Sofá retrátil 3 lugares está esperando!"}
	pub := &fakePublisher{}
	svc, r := newRecovery(t, p, pub)

	res, err := svc.Recover(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Maria, seu Sofá retrátil 3 lugares está esperando!", res.CopyText)
	assert.Equal(t, "1212", res.ClientID)
	assert.NotZero(t, res.ProductID)
	assert.True(t, res.ClientCreated)

	require.Len(t, p.prompts, 1)
	assert.Equal(t, CartRecoveryPrompt("Maria", "Sofá retrátil 3 lugares", CopyOffer{}), p.prompts[0])

	products, err := r.ProductsByClient(context.Background(), "1212")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, res.ProductID, products[0].ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "1212", pub.keys[0])
	ev, ok := pub.events[0].(events.CartRecoveryGenerated)
	require.True(t, ok)
	assert.Equal(t, res.ProductID, ev.ProductID)
}

func TestRecover_UpstreamFailureKeepsRows(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, r := newRecovery(t, &fakePrompter{err: upstreamErr()}, pub)

	res, err := svc.Recover(context.Background(), validInput())
	require.ErrorIs(t, err, llm.ErrUpstream)
	require.NotNil(t, res)
	assert.Equal(t, "1212", res.ClientID)
	assert.NotZero(t, res.ProductID)
	assert.Empty(t, res.CopyText)
	assert.Empty(t, pub.events)

	products, err := r.ProductsByClient(context.Background(), "1212")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestRecover_IntegrityViolation(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{reply: "copy"}
	svc, r := newRecovery(t, p, nil)
	ctx := context.Background()

	_, err := svc.Recover(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.ClientID = "3434"
	_, err = svc.Recover(ctx, in)
	require.ErrorIs(t, err, ErrIntegrity)
	assert.False(t, errors.Is(err, ErrStorage))
	assert.Contains(t, err.Error(), "UNIQUE constraint failed: clients.email")

	assert.Len(t, p.prompts, 1)

	var n int64
	require.NoError(t, r.DB.Model(&models.Product{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	_, err = r.GetClient(ctx, "3434")
	require.Error(t, err)
}

type brokenStore struct{}

func (brokenStore) SaveCartRecovery(context.Context, repo.CartRecoveryInput) (*repo.CartRecoveryRecord, error) {
	return nil, errors.New("connection refused")
}

func TestRecover_StorageError(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{reply: "copy"}
	svc := &RecoveryService{Store: brokenStore{}, LLM: p}

	_, err := svc.Recover(context.Background(), validInput())
	require.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "connection refused", err.Error())
	assert.Empty(t, p.prompts)
}

func TestRecover_Validation(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{reply: "copy"}
	svc := &RecoveryService{Store: brokenStore{}, LLM: p}

	in := validInput()
	in.Email = " "
	_, err := svc.Recover(context.Background(), in)
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, p.prompts)
}
