package automation

// ServiceEntry 可演示服务的目录项
type ServiceEntry struct {
	ID                       string            `json:"id"`
	Name                     string            `json:"name"`
	Category                 string            `json:"category"`
	Description              string            `json:"description"`
	Icon                     string            `json:"icon"`
	SupportedDeliveryMethods []string          `json:"supportedDeliveryMethods"`
	DemoTemplate             map[string]string `json:"demoTemplate"`
}

// serviceCatalog 静态服务目录，模板占位符由前端填充
var serviceCatalog = []ServiceEntry{
	{
		ID:                       "lead-notification",
		Name:                     "Lead Notification",
		Category:                 "crm",
		Description:              "Instantly notify sales team of new leads",
		Icon:                     "UserPlus",
		SupportedDeliveryMethods: []string{"email", "sms", "slack"},
		DemoTemplate: map[string]string{
			"subject": "New Lead: {{name}}",
			"message": "New lead from {{source}}: {{name}} ({{email}})",
		},
	},
	{
		ID:                       "appointment-booking",
		Name:                     "Appointment Booking",
		Category:                 "operations",
		Description:              "Automated appointment confirmations",
		Icon:                     "Calendar",
		SupportedDeliveryMethods: []string{"email", "sms", "calendar"},
		DemoTemplate: map[string]string{
			"subject": "Your Appointment Confirmation",
			"message": "Your appointment is confirmed for {{date}} at {{time}}",
		},
	},
	{
		ID:                       "customer-support",
		Name:                     "Support Ticket Response",
		Category:                 "support",
		Description:              "Auto-respond to support tickets",
		Icon:                     "MessageCircle",
		SupportedDeliveryMethods: []string{"email", "slack", "webhook"},
		DemoTemplate: map[string]string{
			"subject": "Re: Support Ticket #{{ticketId}}",
			"message": "Thank you for contacting support. We've received your request.",
		},
	},
	{
		ID:                       "order-confirmation",
		Name:                     "Order Confirmation",
		Category:                 "operations",
		Description:              "Send order confirmations instantly",
		Icon:                     "ShoppingCart",
		SupportedDeliveryMethods: []string{"email", "sms"},
		DemoTemplate: map[string]string{
			"subject": "Order Confirmation #{{orderId}}",
			"message": "Your order #{{orderId}} has been confirmed. Total: ${{amount}}",
		},
	},
	{
		ID:                       "event-registration",
		Name:                     "Event Registration",
		Category:                 "marketing",
		Description:              "Automate event registrations",
		Icon:                     "Users",
		SupportedDeliveryMethods: []string{"email", "calendar", "sms"},
		DemoTemplate: map[string]string{
			"subject": "You're Registered for {{eventName}}",
			"message": "Thanks for registering! Event details: {{date}} at {{location}}",
		},
	},
	{
		ID:                       "password-reset",
		Name:                     "Password Reset",
		Category:                 "support",
		Description:              "Automated password reset emails",
		Icon:                     "Lock",
		SupportedDeliveryMethods: []string{"email", "sms"},
		DemoTemplate: map[string]string{
			"subject": "Reset Your Password",
			"message": "Click here to reset your password: {{resetLink}}",
		},
	},
	{
		ID:                       "invoice-reminder",
		Name:                     "Invoice Reminder",
		Category:                 "operations",
		Description:              "Automated invoice reminders",
		Icon:                     "DollarSign",
		SupportedDeliveryMethods: []string{"email", "sms"},
		DemoTemplate: map[string]string{
			"subject": "Invoice #{{invoiceId}} Due Soon",
			"message": "Your invoice of ${{amount}} is due on {{dueDate}}",
		},
	},
	{
		ID:                       "welcome-sequence",
		Name:                     "Welcome Email Sequence",
		Category:                 "marketing",
		Description:              "Onboard new users automatically",
		Icon:                     "Mail",
		SupportedDeliveryMethods: []string{"email"},
		DemoTemplate: map[string]string{
			"subject": "Welcome to {{companyName}}!",
			"message": "We're excited to have you! Here's how to get started...",
		},
	},
}
