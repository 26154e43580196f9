package markdown

import "testing"

func TestExtractRefsCollectsLinksAndImages(t *testing.T) {
	body := []byte(`# Post

See [the index](/index.html) and [a note](notes/channels.md "Channels").

![diagram](img/pipeline.png)

External: [repo](https://example.com/repo) and https://example.com/auto.

In-page [anchor](#setup).

` + "```\n[not a link](ignored.md)\n```\n")

	refs, err := ExtractRefs(body)
	if err != nil {
		t.Fatalf("ExtractRefs returned error: %v", err)
	}

	byDest := map[string]Ref{}
	for _, ref := range refs {
		byDest[ref.Destination] = ref
	}

	if _, ok := byDest["ignored.md"]; ok {
		t.Fatal("expected fenced code contents to be ignored")
	}

	internal, ok := byDest["notes/channels.md"]
	if !ok {
		t.Fatalf("expected relative link collected, got %v", refs)
	}
	if !internal.Internal() || internal.Kind != RefLink {
		t.Fatalf("expected internal link, got %+v", internal)
	}
	if internal.Title != "Channels" {
		t.Fatalf("expected title carried, got %q", internal.Title)
	}

	image, ok := byDest["img/pipeline.png"]
	if !ok || image.Kind != RefImage {
		t.Fatalf("expected image ref, got %+v", image)
	}
	if !image.Internal() {
		t.Fatal("expected relative image to be internal")
	}

	external, ok := byDest["https://example.com/repo"]
	if !ok || !external.External() {
		t.Fatalf("expected external link, got %+v", external)
	}

	auto, ok := byDest["https://example.com/auto"]
	if !ok || !auto.External() {
		t.Fatalf("expected autolink collected as external, got %v", refs)
	}

	anchor, ok := byDest["#setup"]
	if !ok || !anchor.Fragment() || anchor.Internal() {
		t.Fatalf("expected fragment ref, got %+v", anchor)
	}

	rooted, ok := byDest["/index.html"]
	if !ok || !rooted.Internal() {
		t.Fatalf("expected root-relative link to be internal, got %+v", rooted)
	}
}
