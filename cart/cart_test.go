package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electrostore/storefront/catalog"
	"github.com/electrostore/storefront/entities"
	"github.com/electrostore/storefront/kv"
	"github.com/electrostore/storefront/session"
	"github.com/electrostore/storefront/token"
)

type fixture struct {
	store    kv.Store
	sessions *session.Store
	engine   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := kv.NewMemory()
	sessions := session.New(store, token.New())
	engine := New(store, catalog.New(), sessions)

	return &fixture{store: store, sessions: sessions, engine: engine}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()

	reg := session.Registration{
		Email:           "ana@electrostore.com",
		Password:        "Str0ng!pass",
		ConfirmPassword: "Str0ng!pass",
		FirstName:       "Ana",
	}

	resp := f.sessions.Register(context.Background(), reg)
	require.True(t, resp.Success, resp.Message)

	f.engine.onAuthChange(context.Background(), true)
}

func TestEngine_AddItem_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.engine.AddItem(ctx, "sm001", 1, "")
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "sign in")
	assert.Nil(t, f.engine.Current(), "cart must be left unchanged")
}

func TestEngine_AddItem_MergesSameProductAndVariant(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	resp := f.engine.AddItem(ctx, "sm001", 1, "")
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, 1, resp.Cart.TotalItems)
	assert.EqualValues(t, 4_299_000, resp.Cart.Subtotal)

	resp = f.engine.AddItem(ctx, "sm001", 1, "")
	require.True(t, resp.Success, resp.Message)

	assert.Len(t, resp.Cart.Items, 1, "still one line item")
	assert.Equal(t, 2, resp.Cart.TotalItems)
	assert.EqualValues(t, 8_598_000, resp.Cart.Subtotal)
	assert.Equal(t, resp.Cart.Subtotal, resp.Cart.Total)
}

func TestEngine_AddItem_AccumulatesQuantitiesAcrossCalls(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	for _, q := range []int{2, 3, 5} {
		resp := f.engine.AddItem(ctx, "au001", q, "black")
		require.True(t, resp.Success, resp.Message)
	}

	cart := f.engine.Current()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 10, cart.Items[0].Quantity)
	assert.Equal(t, 10, cart.TotalItems)
}

func TestEngine_AddItem_DistinctVariantsStaySeparate(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	require.True(t, f.engine.AddItem(ctx, "sm001", 1, "blue").Success)
	require.True(t, f.engine.AddItem(ctx, "sm001", 1, "natural").Success)

	cart := f.engine.Current()
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.TotalItems)
}

func TestEngine_AddItem_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	resp := f.engine.AddItem(context.Background(), "nope", 1, "")
	assert.False(t, resp.Success)
	assert.Equal(t, entities.ErrProductNotFound.Error(), resp.Message)
	assert.Empty(t, f.engine.Current().Items)
}

func TestEngine_RemoveItem(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	added := f.engine.AddItem(ctx, "sm001", 2, "")
	require.True(t, added.Success)
	itemID := added.Cart.Items[0].ID

	resp := f.engine.RemoveItem(ctx, itemID)
	require.True(t, resp.Success, resp.Message)
	assert.Empty(t, resp.Cart.Items)
	assert.Zero(t, resp.Cart.TotalItems)
	assert.Zero(t, resp.Cart.Subtotal)
}

func TestEngine_RemoveItem_NotFound(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	resp := f.engine.RemoveItem(context.Background(), "missing")
	assert.False(t, resp.Success)
	assert.Equal(t, entities.ErrItemNotFound.Error(), resp.Message)
}

func TestEngine_UpdateQuantity(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	added := f.engine.AddItem(ctx, "gm001", 1, "")
	require.True(t, added.Success)
	itemID := added.Cart.Items[0].ID

	resp := f.engine.UpdateQuantity(ctx, itemID, 4)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, 4, resp.Cart.TotalItems)
	assert.EqualValues(t, 4*2_499_000, resp.Cart.Subtotal)
}

func TestEngine_UpdateQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		f := newFixture(t)
		f.signIn(t)
		ctx := context.Background()

		added := f.engine.AddItem(ctx, "gm001", 1, "")
		require.True(t, added.Success)
		itemID := added.Cart.Items[0].ID

		resp := f.engine.UpdateQuantity(ctx, itemID, quantity)
		require.True(t, resp.Success, resp.Message)
		assert.Empty(t, resp.Cart.Items)
	}
}

func TestEngine_Clear(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	require.True(t, f.engine.AddItem(ctx, "sm001", 3, "").Success)

	resp := f.engine.Clear(ctx)
	require.True(t, resp.Success, resp.Message)
	assert.Empty(t, resp.Cart.Items)
	assert.True(t, f.engine.Summary().IsEmpty)
}

func TestEngine_Clear_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	resp := f.engine.Clear(context.Background())
	assert.False(t, resp.Success)
}

func TestEngine_AggregatesStayConsistent(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	require.True(t, f.engine.AddItem(ctx, "sm001", 2, "").Success)
	require.True(t, f.engine.AddItem(ctx, "au001", 3, "").Success)
	require.True(t, f.engine.AddItem(ctx, "gm001", 1, "").Success)

	added := f.engine.Current()
	require.True(t, f.engine.UpdateQuantity(ctx, added.Items[1].ID, 5).Success)
	require.True(t, f.engine.RemoveItem(ctx, added.Items[2].ID).Success)

	cart := f.engine.Current()

	wantItems := 0
	var wantSubtotal int64
	for _, item := range cart.Items {
		wantItems += item.Quantity
		wantSubtotal += item.PriceAtTime * int64(item.Quantity)
	}

	assert.Equal(t, wantItems, cart.TotalItems)
	assert.Equal(t, wantSubtotal, cart.Subtotal)
	assert.Equal(t, cart.Subtotal, cart.Total)
}

func TestEngine_LogoutKeepsPersistedCopy_ReloginRestoresIt(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	require.True(t, f.engine.AddItem(ctx, "sm001", 2, "titanium").Success)
	before := f.engine.Current()

	f.sessions.Logout(ctx)
	f.engine.onAuthChange(ctx, false)

	assert.Nil(t, f.engine.Current(), "in-memory cart must be discarded")

	login := f.sessions.Login(ctx, session.Credentials{
		Email:    "ana@electrostore.com",
		Password: "Str0ng!pass",
	})
	require.True(t, login.Success, login.Message)
	f.engine.onAuthChange(ctx, true)

	after := f.engine.Current()
	require.NotNil(t, after)

	assert.Equal(t, before.ID, after.ID)
	require.Len(t, after.Items, 1)
	assert.Equal(t, "sm001", after.Items[0].Product.ID)
	assert.Equal(t, "titanium", after.Items[0].Variant)
	assert.Equal(t, 2, after.Items[0].Quantity)
	assert.Equal(t, before.Subtotal, after.Subtotal)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt), "timestamps must survive the round trip")
}

func TestEngine_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	store := kv.NewMemory()
	sessions := session.New(store, token.New())

	products := []entities.Product{{
		ID:     "p1",
		Name:   "Gadget",
		Price:  1_000,
		Stock:  5,
		Status: entities.ProductAvailable,
	}}
	cat := catalog.New(catalog.WithProducts(products))

	engine := New(store, cat, sessions)
	f := &fixture{store: store, sessions: sessions, engine: engine}
	f.signIn(t)
	ctx := context.Background()

	require.True(t, engine.AddItem(ctx, "p1", 1, "").Success)

	cart := engine.Current()
	assert.EqualValues(t, 1_000, cart.Items[0].PriceAtTime)
}

func TestEngine_MalformedPersistedCartStartsFresh(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	user := f.sessions.CurrentUser()
	require.NoError(t, f.store.Set(ctx, cartKeyPrefix+user.ID, "{broken"))

	f.engine.onAuthChange(ctx, true)

	cart := f.engine.Current()
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
}

func TestEngine_PersistedCartIsValidJSON(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	require.True(t, f.engine.AddItem(ctx, "lp001", 1, "").Success)

	user := f.sessions.CurrentUser()
	raw, err := f.store.Get(ctx, cartKeyPrefix+user.ID)
	require.NoError(t, err)

	var persisted entities.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, user.ID, persisted.UserID)
	assert.EqualValues(t, 9_899_000, persisted.Subtotal)
}

func TestEngine_BroadcastsSnapshots(t *testing.T) {
	f := newFixture(t)

	cartCh, cancelCart := f.engine.SubscribeCart()
	defer cancelCart()
	summaryCh, cancelSummary := f.engine.SubscribeSummary()
	defer cancelSummary()

	f.signIn(t)
	ctx := context.Background()

	require.True(t, f.engine.AddItem(ctx, "sm001", 1, "").Success)

	// First snapshot is the empty cart created on sign-in, the next one
	// carries the added line.
	for {
		cart := <-cartCh
		if cart != nil && len(cart.Items) == 1 {
			assert.Equal(t, 1, cart.TotalItems)
			break
		}
	}

	for {
		summary := <-summaryCh
		if !summary.IsEmpty {
			assert.EqualValues(t, 4_299_000, summary.Subtotal)
			break
		}
	}
}

func TestEngine_RunReactsToAuthChannel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go f.engine.Run(ctx)

	reg := session.Registration{
		Email:           "ana@electrostore.com",
		Password:        "Str0ng!pass",
		ConfirmPassword: "Str0ng!pass",
		FirstName:       "Ana",
	}
	require.True(t, f.sessions.Register(ctx, reg).Success)

	cartCh, cancelSub := f.engine.SubscribeCart()
	defer cancelSub()

	for cart := range cartCh {
		if cart != nil {
			assert.Equal(t, f.sessions.CurrentUser().ID, cart.UserID)
			return
		}
	}
}
