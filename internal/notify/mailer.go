package notify

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/greenvida/greenstore/internal/app"
	"github.com/greenvida/greenstore/internal/domain"
	"github.com/greenvida/greenstore/internal/store"
	"github.com/greenvida/greenstore/pkg/common"
)

// TopicProductCreated is published when an operator creates a product.
const TopicProductCreated = "product.created"

// TopicContentPublished is published when an article goes live.
const TopicContentPublished = "content.published"

// Mailer turns bus events into outbound email. Delivery runs on a
// small worker pool; a failed send is logged and dropped, it never
// reaches the publisher.
type Mailer struct {
	appc app.AppContext
	pool *ants.Pool
}

func New(appc app.AppContext) (*Mailer, error) {
	pool, err := ants.NewPool(4, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &Mailer{appc: appc, pool: pool}, nil
}

// Subscribe attaches the mailer to the application bus.
func (m *Mailer) Subscribe(bus EventBus.Bus) error {
	if err := bus.Subscribe(store.TopicOrderCreated, m.onOrderCreated); err != nil {
		return err
	}
	if err := bus.Subscribe(TopicProductCreated, m.onProductCreated); err != nil {
		return err
	}
	return bus.Subscribe(TopicContentPublished, m.onContentPublished)
}

func (m *Mailer) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

func (m *Mailer) onOrderCreated(order *domain.Order) {
	if order == nil || !m.appc.GetSettingsBoolValue("notify", "order_emails") {
		return
	}
	var user domain.User
	if err := m.appc.DB().Where("id = ?", order.UserID).First(&user).Error; err != nil {
		zap.L().Error("order mail: user lookup failed",
			zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}
	site := m.appc.GetSettingsStringValue("site", "name")
	subject := fmt.Sprintf("%s - order #%d received", site, order.ID)
	body := orderBody(site, order, &user)

	m.submit(func() {
		if err := m.send(user.Email, subject, body); err != nil {
			zap.L().Error("order confirmation mail failed",
				zap.Int64("order_id", order.ID),
				zap.String("to", user.Email),
				zap.Error(err))
		}
	})

	// Operator copy goes to the configured sender address.
	admin := m.appc.Config().Smtp.From
	if admin != "" {
		adminBody := fmt.Sprintf("Order #%d placed by %s for %s.\r\n\r\n%s",
			order.ID, user.Email, order.Total.StringFixed(2), body)
		m.submit(func() {
			if err := m.send(admin, subject, adminBody); err != nil {
				zap.L().Error("order alert mail failed",
					zap.Int64("order_id", order.ID), zap.Error(err))
			}
		})
	}
}

func (m *Mailer) onProductCreated(product *domain.Product) {
	if product == nil || !m.appc.GetSettingsBoolValue("notify", "product_emails") {
		return
	}
	var users []domain.User
	err := m.appc.DB().
		Where("receive_offers = ? AND status = ?", true, common.ENABLED).
		Find(&users).Error
	if err != nil {
		zap.L().Error("product mail: subscriber lookup failed", zap.Error(err))
		return
	}
	if len(users) == 0 {
		return
	}
	site := m.appc.GetSettingsStringValue("site", "name")
	base := m.appc.GetSettingsStringValue("site", "base_url")
	subject := fmt.Sprintf("%s - new product: %s", site, product.Name)
	body := fmt.Sprintf("We just added %s to the store.\r\n\r\n%s/products/%s\r\n",
		product.Name, base, product.Slug)

	for _, u := range users {
		to := u.Email
		m.submit(func() {
			if err := m.send(to, subject, body); err != nil {
				zap.L().Error("product announcement mail failed",
					zap.String("to", to), zap.Error(err))
			}
		})
	}
}

func (m *Mailer) onContentPublished(article *domain.Article) {
	if article == nil || !m.appc.GetSettingsBoolValue("notify", "product_emails") {
		return
	}
	var users []domain.User
	err := m.appc.DB().
		Where("receive_offers = ? AND status = ?", true, common.ENABLED).
		Find(&users).Error
	if err != nil {
		zap.L().Error("content mail: subscriber lookup failed", zap.Error(err))
		return
	}
	site := m.appc.GetSettingsStringValue("site", "name")
	base := m.appc.GetSettingsStringValue("site", "base_url")
	subject := fmt.Sprintf("%s - %s", site, article.Title)
	body := fmt.Sprintf("New on %s: %s\r\n\r\n%s/articles/%s\r\n",
		site, article.Title, base, article.Slug)

	for _, u := range users {
		to := u.Email
		m.submit(func() {
			if err := m.send(to, subject, body); err != nil {
				zap.L().Error("content announcement mail failed",
					zap.String("to", to), zap.Error(err))
			}
		})
	}
}

func (m *Mailer) submit(task func()) {
	if err := m.pool.Submit(task); err != nil {
		zap.L().Error("mail task rejected", zap.Error(err))
	}
}

func (m *Mailer) send(to, subject, body string) error {
	smtp := m.appc.Config().Smtp
	if smtp.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", smtp.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	dialer := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	return dialer.DialAndSend(msg)
}

func orderBody(site string, order *domain.Order, user *domain.User) string {
	s := fmt.Sprintf("Hi %s,\r\n\r\nWe received your order #%d.\r\n\r\n", user.FirstName, order.ID)
	for _, line := range order.Lines {
		s += fmt.Sprintf("  %d x %s @ %s\r\n", line.Quantity, line.ProductName, line.UnitPrice.StringFixed(2))
	}
	s += fmt.Sprintf("\r\nSubtotal: %s\r\nShipping: %s\r\nTotal: %s\r\n\r\nThanks for shopping at %s.\r\n",
		order.Subtotal.StringFixed(2), order.ShippingCost.StringFixed(2), order.Total.StringFixed(2), site)
	return s
}
