package workflow

// Template 预置示例工作流
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
}

// Templates 返回预置示例工作流
func Templates() []Template {
	return []Template{
		{
			ID:          "lead-to-crm",
			Name:        "Lead to CRM",
			Description: "Automatically add new leads to CRM and notify sales team",
			Category:    "sales",
			Nodes: []Node{
				{
					ID:       "1",
					Type:     NodeTypeTrigger,
					Label:    "Form Submitted",
					Config:   map[string]any{"form": "Contact Form"},
					Position: Position{X: 100, Y: 100},
				},
				{
					ID:       "2",
					Type:     NodeTypeAction,
					Label:    "Create CRM Contact",
					Config:   map[string]any{"platform": "salesforce"},
					Position: Position{X: 300, Y: 100},
				},
				{
					ID:       "3",
					Type:     NodeTypeAction,
					Label:    "Send Email to Sales",
					Config:   map[string]any{"to": "sales@company.com"},
					Position: Position{X: 500, Y: 100},
				},
			},
			Edges: []Edge{
				{ID: "e1-2", Source: "1", Target: "2"},
				{ID: "e2-3", Source: "2", Target: "3"},
			},
		},
		{
			ID:          "support-ticket",
			Name:        "Support Ticket Automation",
			Description: "Auto-respond to support tickets and create tasks",
			Category:    "support",
			Nodes: []Node{
				{
					ID:       "1",
					Type:     NodeTypeTrigger,
					Label:    "Email Received",
					Config:   map[string]any{"inbox": "support@"},
					Position: Position{X: 100, Y: 100},
				},
				{
					ID:       "2",
					Type:     NodeTypeAction,
					Label:    "Send Auto-Reply",
					Config:   map[string]any{"template": "support-ack"},
					Position: Position{X: 300, Y: 100},
				},
				{
					ID:       "3",
					Type:     NodeTypeCondition,
					Label:    "Priority Check",
					Config:   map[string]any{"field": "priority", "value": "high"},
					Position: Position{X: 500, Y: 100},
				},
				{
					ID:       "4",
					Type:     NodeTypeAction,
					Label:    "Notify Team",
					Config:   map[string]any{"channel": "#support-urgent"},
					Position: Position{X: 700, Y: 50},
				},
				{
					ID:       "5",
					Type:     NodeTypeAction,
					Label:    "Create Ticket",
					Config:   map[string]any{"system": "zendesk"},
					Position: Position{X: 700, Y: 150},
				},
			},
			Edges: []Edge{
				{ID: "e1-2", Source: "1", Target: "2"},
				{ID: "e2-3", Source: "2", Target: "3"},
				{ID: "e3-4", Source: "3", Target: "4", Label: "Yes"},
				{ID: "e3-5", Source: "3", Target: "5", Label: "No"},
			},
		},
	}
}
