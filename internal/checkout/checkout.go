package checkout

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/render"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout modes.
const (
	ModeEmail = "email"
	ModeLinks = "links"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// Service turns a cart into an order: a plain-text summary with a mailto
// draft, or a redirect to a pre-synced payment link. Accepted checkouts are
// archived best-effort when an archive store is configured.
type Service struct {
	storeName  string
	currency   string
	orderEmail string
	mode       string
	archive    *store.Store
	logger     *zap.Logger
}

// NewService creates a checkout service. archive may be nil to disable
// order archiving.
func NewService(storeName, currency, orderEmail, mode string, archive *store.Store) *Service {
	if mode != ModeLinks {
		mode = ModeEmail
	}
	return &Service{
		storeName:  storeName,
		currency:   currency,
		orderEmail: orderEmail,
		mode:       mode,
		archive:    archive,
		logger:     util.GetLogger(),
	}
}

// Result describes how the client should complete the order.
type Result struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url,omitempty"`
	MailtoURL   string `json:"mailto_url,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// Checkout produces the order handoff for the given cart. In links mode the
// first line's payment link is used when the product still has one;
// otherwise an email draft is produced. The cart itself is not cleared here.
func (s *Service) Checkout(ctx context.Context, sessionID string, c *cart.Cart, snap *catalog.Catalog) (*Result, error) {
	ctx, span := util.StartSpan(ctx, "Checkout.Checkout")
	defer span.End()

	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	res := &Result{Reference: uuid.NewString()}

	if s.mode == ModeLinks {
		if p := snap.Find(c.Items[0].ProductID); p != nil && p.PaymentURL != "" {
			res.RedirectURL = p.PaymentURL
		}
	}
	if res.RedirectURL == "" {
		res.Summary = s.OrderText(c, time.Now())
		res.MailtoURL = s.MailtoURL(res.Summary)
	}

	util.CheckoutsTotal.Inc()
	s.archiveOrder(ctx, sessionID, res.Reference, c)
	return res, nil
}

// OrderText builds the plain-text order summary used for the email body and
// the copy-to-clipboard action.
func (s *Service) OrderText(c *cart.Cart, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order for %s\n", s.storeName)
	fmt.Fprintf(&b, "Date: %s\n\nItems:\n", now.Format("2006-01-02 15:04"))
	for _, it := range c.Items {
		sku := it.SKU
		if sku == "" {
			sku = "no sku"
		}
		fmt.Fprintf(&b, "- %s (%s) x %d @ %s = %s\n",
			it.Name, sku, it.Quantity,
			render.FormatMoney(it.Price, s.currency),
			render.FormatMoney(it.Price*float64(it.Quantity), s.currency))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n\n", render.FormatMoney(c.Subtotal(), s.currency))
	b.WriteString("Customer info:\nName: \nEmail: \nPhone: \nAddress: \n")
	return b.String()
}

// MailtoURL wraps the order summary in a mailto draft addressed to the
// store's order inbox.
func (s *Service) MailtoURL(summary string) string {
	subject := url.QueryEscape(s.storeName + " Order")
	body := url.QueryEscape(summary)
	return "mailto:" + url.QueryEscape(s.orderEmail) + "?subject=" + subject + "&body=" + body
}

// CSV exports the cart lines as a downloadable order file.
func (s *Service) CSV(c *cart.Cart) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Name", "SKU", "Qty", "Unit Price", "Line Total"}); err != nil {
		return nil, err
	}
	for _, it := range c.Items {
		row := []string{
			it.Name,
			it.SKU,
			strconv.Itoa(it.Quantity),
			strconv.FormatFloat(it.Price, 'f', 2, 64),
			strconv.FormatFloat(it.Price*float64(it.Quantity), 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// archiveOrder records the checkout when an archive is configured. A write
// failure logs and counts but never fails the checkout.
func (s *Service) archiveOrder(ctx context.Context, sessionID, reference string, c *cart.Cart) {
	if s.archive == nil {
		return
	}

	order := &store.Order{
		Reference: reference,
		SessionID: sessionID,
		Subtotal:  c.Subtotal(),
		ItemCount: c.Count(),
		Currency:  s.currency,
	}
	if err := s.archive.CreateOrder(ctx, order); err != nil {
		util.CheckoutArchiveFailuresTotal.Inc()
		s.logger.Error("Order archive write failed", zap.String("reference", reference), zap.Error(err))
		return
	}

	for _, it := range c.Items {
		line := &store.OrderLine{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			SKU:       it.SKU,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		}
		if err := s.archive.CreateOrderLine(ctx, line); err != nil {
			util.CheckoutArchiveFailuresTotal.Inc()
			s.logger.Error("Order line archive write failed",
				zap.String("reference", reference), zap.String("product_id", it.ProductID), zap.Error(err))
		}
	}
}
