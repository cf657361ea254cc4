package service

import (
	"bytes"
	"codementor_backend/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const guidanceSchemaURL = "schema://guidance-response.json"

const guidanceSchemaJSON = `{
  "type": "object",
  "required": ["guidance", "resources", "progress"],
  "properties": {
    "guidance": {
      "type": "object",
      "required": ["content"],
      "properties": {
        "content": { "type": "string", "minLength": 1 },
        "codeExample": {
          "type": ["object", "null"],
          "required": ["title", "code", "language"],
          "properties": {
            "title": { "type": "string" },
            "code": { "type": "string" },
            "language": { "type": "string" }
          }
        }
      }
    },
    "resources": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "title", "description", "link"],
        "properties": {
          "type": { "type": "string", "minLength": 1, "maxLength": 50 },
          "title": { "type": "string" },
          "description": { "type": "string" },
          "level": { "type": ["string", "null"], "maxLength": 100 },
          "duration": { "type": ["string", "null"], "maxLength": 100 },
          "imageUrl": { "type": ["string", "null"] },
          "link": { "type": "string", "minLength": 1 }
        }
      }
    },
    "progress": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "percentage"],
        "properties": {
          "name": { "type": "string", "minLength": 1, "maxLength": 191 },
          "percentage": { "type": "number", "minimum": 0, "maximum": 100 }
        }
      }
    }
  }
}`

var (
	guidanceSchemaOnce sync.Once
	guidanceSchema     *jsonschema.Schema
	guidanceSchemaErr  error
)

func compiledGuidanceSchema() (*jsonschema.Schema, error) {
	guidanceSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(guidanceSchemaJSON))
		if err != nil {
			guidanceSchemaErr = fmt.Errorf("parse guidance schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(guidanceSchemaURL, doc); err != nil {
			guidanceSchemaErr = fmt.Errorf("add guidance schema: %w", err)
			return
		}
		guidanceSchema, guidanceSchemaErr = c.Compile(guidanceSchemaURL)
	})
	return guidanceSchema, guidanceSchemaErr
}

type generatedResource struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Level       *string `json:"level"`
	Duration    *string `json:"duration"`
	ImageURL    *string `json:"imageUrl"`
	Link        string  `json:"link"`
}

type generatedProgress struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type generatedResponse struct {
	Guidance struct {
		Content     string             `json:"content"`
		CodeExample *model.CodeExample `json:"codeExample"`
	} `json:"guidance"`
	Resources []generatedResource `json:"resources"`
	Progress  []generatedProgress `json:"progress"`
}

// stripCodeFence 去掉模型偶尔包裹在外层的 ```json 代码块
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		return ""
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

// parseGuidanceResponse 先按 schema 校验再解码为强类型结构，任一步失败都不会返回部分结果
func parseGuidanceResponse(text string) (*GuidancePlan, error) {
	body := stripCodeFence(text)
	if body == "" {
		return nil, &ExternalCallError{Kind: ExternalEmpty, Err: errors.New("no text in completion")}
	}

	schema, err := compiledGuidanceSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(body))
	if err != nil {
		return nil, &ExternalCallError{Kind: ExternalMalformed, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(inst); err != nil {
		return nil, &ExternalCallError{Kind: ExternalMalformed, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var resp generatedResponse
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&resp); err != nil {
		return nil, &ExternalCallError{Kind: ExternalMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}

	plan := &GuidancePlan{
		Content:     resp.Guidance.Content,
		CodeExample: resp.Guidance.CodeExample,
		Resources:   make([]model.Resource, 0, len(resp.Resources)),
		Progress:    make([]model.ProgressItem, 0, len(resp.Progress)),
	}
	for _, r := range resp.Resources {
		plan.Resources = append(plan.Resources, model.Resource{
			Type:        model.ResourceType(r.Type),
			Title:       r.Title,
			Description: r.Description,
			Level:       r.Level,
			Duration:    r.Duration,
			ImageURL:    r.ImageURL,
			Link:        r.Link,
		})
	}
	for _, p := range resp.Progress {
		plan.Progress = append(plan.Progress, model.ProgressItem{
			Name:       p.Name,
			Percentage: int(math.Round(p.Percentage)),
		})
	}
	return plan, nil
}
