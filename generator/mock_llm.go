package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is an offline stand-in for local runs. It never calls a model: the
// draft pass returns a fixed bedtime story that mentions the request, and
// the judge pass returns the story it was given with a closing line.
type MockLLM struct{}

func (MockLLM) Complete(_ context.Context, prompt Prompt, _ Params) (string, error) {
	if strings.Contains(prompt.System, "story editor") {
		return strings.TrimSpace(prompt.User) + "\n\n" + mockClosing, nil
	}
	return mockDraft(prompt.User), nil
}

const mockClosing = "And from that night on, whenever the wind hummed outside the window, Pip smiled, because " +
	"she knew that small hearts can do brave and kind things."

var mockParagraphs = []string{
	"Pip lived in a little blue house at the end of Clover Lane, where the mailbox leaned to one side like it " +
		"was listening for secrets. Every evening she sat on the porch step with her striped scarf and a cup of warm " +
		"cocoa, watching the sky turn from orange to purple to a deep, sleepy blue.",
	"One breezy afternoon, a small paper kite came tumbling over the fence and landed right in her lap. It had a " +
		"tail made of yellow ribbons and a note tied on with string. The note said, in wobbly letters, \"Please help " +
		"me find my way home.\" Pip turned it over twice and giggled.",
	"\"A kite that writes letters?\" she whispered. \"That is the silliest and best thing I have ever seen.\" She " +
		"tucked the note into her pocket, tightened her scarf, and called for her best friend Milo, who lived two " +
		"houses down and was very good at finding things.",
	"Milo came running with his shoelaces flapping. He looked at the kite, then at the note, then at the kite " +
		"again. \"Homes have clues,\" he said seriously. \"We just have to look.\" So the two friends set off down the " +
		"lane, the kite bobbing between them like an excited puppy.",
	"Their first try was the park. They asked the ducks by the pond, but the ducks only quacked and paddled in " +
		"circles. They asked the gardener, Mrs. Alvarez, who smelled of mint and fresh soil. She shook her head kindly " +
		"and said, \"No kites live in my roses, dears, but try the hill.\"",
	"Their second try was the hill. The grass was soft and tickly, and the wind pushed at their backs as if it " +
		"wanted to help. At the top they found a boy sitting alone, holding a spool of string with nothing at the end. " +
		"His cheeks were pink, and his eyes looked a little wet.",
	"Pip knelt beside him. \"Is this yours?\" she asked, holding up the kite. The boy gasped so loudly that a " +
		"sparrow hopped away. \"That is Sunny!\" he cried. \"I wrote the note in case she got lost. I am Theo. I only " +
		"just moved here, and I do not know anyone yet.\"",
	"Milo grinned. \"Now you know us,\" he said. Theo laughed, a small laugh at first, and then a big one. Pip " +
		"helped him tie the string back onto the kite, double knot and then a bow, the way her grandmother had taught " +
		"her. The ribbons fluttered like they were clapping.",
	"Their third try was the best one of all. The three of them ran together down the hill, and Sunny leapt into " +
		"the air, higher and higher, until she was a bright yellow dot against the clouds. Theo held the string, Milo " +
		"cheered, and Pip counted the loops the kite made in the sky.",
	"When the sun began to sink, they walked back along Clover Lane, sharing a bag of crunchy apple slices. Theo " +
		"told them about his old town, where the trains sang at night. Milo told him which tree had the best branch " +
		"for sitting. Pip told him that the leaning mailbox listens.",
	"At Theo's new front door, his mother smiled and thanked them for bringing him home safe. Theo held the kite " +
		"close and said, \"Will you come fly Sunny again tomorrow?\" Pip and Milo looked at each other and nodded so " +
		"fast that their hats nearly fell off.",
	"That night, Pip wrote in her notebook before bed. She wrote about the ducks and the mint and the tickly hill. " +
		"At the bottom of the page she wrote one more line, in her neatest letters: \"Sometimes a lost thing helps " +
		"you find a friend.\" Then she yawned, and the moon winked at her through the curtains.",
}

func mockDraft(request string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("This is a story for a child who asked: %q.\n\n", strings.TrimSpace(request)))
	sb.WriteString(strings.Join(mockParagraphs, "\n\n"))
	return sb.String()
}
