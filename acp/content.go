package acp

import (
	"encoding/json"
	"fmt"
)

// Role identifies which side of a conversation produced a piece of
// content, used only inside Annotations.Audience.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Annotations carries optional metadata about a content block: who it was
// produced for, when it was last modified, and its relative priority.
type Annotations struct {
	Audience     []Role         `json:"audience,omitempty"`
	LastModified *string        `json:"lastModified,omitempty"`
	Priority     *float64       `json:"priority,omitempty"`
	Meta         map[string]any `json:"_meta,omitempty"`
}

func (a Annotations) isZero() bool {
	return len(a.Audience) == 0 && a.LastModified == nil && a.Priority == nil && len(a.Meta) == 0
}

// TextContent is the "text" content-block variant.
type TextContent struct {
	Text        string       `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// ImageContent is the "image" content-block variant.
type ImageContent struct {
	Data        string       `json:"data"`
	MimeType    string       `json:"mimeType"`
	URI         string       `json:"uri,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// AudioContent is the "audio" content-block variant.
type AudioContent struct {
	Data        string       `json:"data"`
	MimeType    string       `json:"mimeType"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// ResourceLink is the "resource_link" content-block variant: a reference
// to a resource without its contents inlined.
type ResourceLink struct {
	URI         string       `json:"uri"`
	Name        string       `json:"name"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	MimeType    string       `json:"mimeType,omitempty"`
	Size        *int64       `json:"size,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// TextResourceContents is one variant of the untagged
// EmbeddedResourceResource union, distinguished structurally by the
// presence of a "text" key.
type TextResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// BlobResourceContents is the other variant of EmbeddedResourceResource,
// distinguished structurally by the presence of a "blob" key.
type BlobResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Blob     string `json:"blob"`
}

// EmbeddedResourceResource is an untagged union (§3.4 shape 5): resolved
// structurally by probing for "text" before "blob".
type EmbeddedResourceResource struct {
	text *TextResourceContents
	blob *BlobResourceContents
}

// NewTextResource wraps a TextResourceContents as an EmbeddedResourceResource.
func NewTextResource(v TextResourceContents) EmbeddedResourceResource {
	return EmbeddedResourceResource{text: &v}
}

// NewBlobResource wraps a BlobResourceContents as an EmbeddedResourceResource.
func NewBlobResource(v BlobResourceContents) EmbeddedResourceResource {
	return EmbeddedResourceResource{blob: &v}
}

// AsText returns the text variant and true if that is the held variant.
func (r EmbeddedResourceResource) AsText() (TextResourceContents, bool) {
	if r.text == nil {
		return TextResourceContents{}, false
	}
	return *r.text, true
}

// AsBlob returns the blob variant and true if that is the held variant.
func (r EmbeddedResourceResource) AsBlob() (BlobResourceContents, bool) {
	if r.blob == nil {
		return BlobResourceContents{}, false
	}
	return *r.blob, true
}

func (r EmbeddedResourceResource) MarshalJSON() ([]byte, error) {
	switch {
	case r.text != nil:
		return json.Marshal(r.text)
	case r.blob != nil:
		return json.Marshal(r.blob)
	default:
		return nil, fmt.Errorf("acp: empty EmbeddedResourceResource")
	}
}

func (r *EmbeddedResourceResource) UnmarshalJSON(data []byte) error {
	var probe struct {
		Text *string `json:"text"`
		Blob *string `json:"blob"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch {
	case probe.Text != nil:
		var v TextResourceContents
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		r.text = &v
	case probe.Blob != nil:
		var v BlobResourceContents
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		r.blob = &v
	default:
		return invalidParams("resource: neither text nor blob present")
	}
	return nil
}

// EmbeddedResource is the "resource" content-block variant: an inlined
// resource (as opposed to ResourceLink, which only references one).
type EmbeddedResource struct {
	Resource    EmbeddedResourceResource `json:"resource"`
	Annotations *Annotations             `json:"annotations,omitempty"`
}

// ContentBlock is the tagged union of §3.4 shape 4: a `type`-tagged
// payload carrying one of text, image, audio, resource_link or resource,
// with the variant's fields flattened into the outer object.
type ContentBlock struct {
	discriminator string
	text          *TextContent
	image         *ImageContent
	audio         *AudioContent
	resourceLink  *ResourceLink
	resource      *EmbeddedResource
}

// TextBlock builds a ContentBlock holding plain text.
func TextBlock(text string) ContentBlock {
	return ContentBlock{discriminator: "text", text: &TextContent{Text: text}}
}

// ImageBlock builds a ContentBlock holding image data.
func ImageBlock(v ImageContent) ContentBlock {
	return ContentBlock{discriminator: "image", image: &v}
}

// AudioBlock builds a ContentBlock holding audio data.
func AudioBlock(v AudioContent) ContentBlock {
	return ContentBlock{discriminator: "audio", audio: &v}
}

// ResourceLinkBlock builds a ContentBlock referencing a resource.
func ResourceLinkBlock(v ResourceLink) ContentBlock {
	return ContentBlock{discriminator: "resource_link", resourceLink: &v}
}

// ResourceBlock builds a ContentBlock inlining a resource.
func ResourceBlock(v EmbeddedResource) ContentBlock {
	return ContentBlock{discriminator: "resource", resource: &v}
}

// Kind returns the block's discriminator.
func (c ContentBlock) Kind() string { return c.discriminator }

// IsText reports whether the block holds plain text.
func (c ContentBlock) IsText() bool { return c.discriminator == "text" }

// GetText returns the text variant and true if that is the held variant.
func (c ContentBlock) GetText() (TextContent, bool) {
	if c.text == nil {
		return TextContent{}, false
	}
	return *c.text, true
}

// GetImage returns the image variant and true if that is the held variant.
func (c ContentBlock) GetImage() (ImageContent, bool) {
	if c.image == nil {
		return ImageContent{}, false
	}
	return *c.image, true
}

// GetAudio returns the audio variant and true if that is the held variant.
func (c ContentBlock) GetAudio() (AudioContent, bool) {
	if c.audio == nil {
		return AudioContent{}, false
	}
	return *c.audio, true
}

// GetResourceLink returns the resource_link variant and true if that is
// the held variant.
func (c ContentBlock) GetResourceLink() (ResourceLink, bool) {
	if c.resourceLink == nil {
		return ResourceLink{}, false
	}
	return *c.resourceLink, true
}

// GetResource returns the resource variant and true if that is the held
// variant.
func (c ContentBlock) GetResource() (EmbeddedResource, bool) {
	if c.resource == nil {
		return EmbeddedResource{}, false
	}
	return *c.resource, true
}

func (c ContentBlock) MarshalJSON() ([]byte, error) {
	var flat map[string]any
	switch c.discriminator {
	case "text":
		flat = flatten(c.text)
	case "image":
		flat = flatten(c.image)
	case "audio":
		flat = flatten(c.audio)
	case "resource_link":
		flat = flatten(c.resourceLink)
	case "resource":
		flat = flatten(c.resource)
	default:
		return nil, fmt.Errorf("acp: empty ContentBlock")
	}
	flat["type"] = c.discriminator
	return json.Marshal(flat)
}

func (c *ContentBlock) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.Type {
	case "text":
		var v TextContent
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ContentBlock{discriminator: "text", text: &v}
	case "image":
		var v ImageContent
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ContentBlock{discriminator: "image", image: &v}
	case "audio":
		var v AudioContent
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ContentBlock{discriminator: "audio", audio: &v}
	case "resource_link":
		var v ResourceLink
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ContentBlock{discriminator: "resource_link", resourceLink: &v}
	case "resource":
		var v EmbeddedResource
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = ContentBlock{discriminator: "resource", resource: &v}
	default:
		return invalidParams("type")
	}
	return nil
}

// flatten round-trips v through JSON to get a plain map[string]any,
// used to merge a variant's own fields with an outer discriminator key
// when the tag is flattened rather than nested (§4.1).
func flatten(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	if m == nil {
		m = map[string]any{}
	}
	return m
}
