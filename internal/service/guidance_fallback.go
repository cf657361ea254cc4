package service

import (
	"codementor_backend/internal/model"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// ClassifyTier beginner 优先于 intermediate，都不匹配时为 advanced
func ClassifyTier(experienceLevel string) Tier {
	level := strings.ToLower(experienceLevel)
	switch {
	case strings.Contains(level, "beginner"):
		return TierBeginner
	case strings.Contains(level, "intermediate"):
		return TierIntermediate
	default:
		return TierAdvanced
	}
}

type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleReading     LearningStyle = "reading"
	StyleInteractive LearningStyle = "interactive"
	StyleMixed       LearningStyle = "mixed"
)

func ClassifyStyle(learningStyle string) LearningStyle {
	style := strings.ToLower(learningStyle)
	switch {
	case strings.Contains(style, "visual"):
		return StyleVisual
	case strings.Contains(style, "reading"):
		return StyleReading
	case strings.Contains(style, "interactive"), strings.Contains(style, "hands-on"):
		return StyleInteractive
	default:
		return StyleMixed
	}
}

// GuidancePlan 一次生成的完整结果，模型输出和兜底内容都落成这个结构再统一持久化
type GuidancePlan struct {
	Content     string
	CodeExample *model.CodeExample
	Resources   []model.Resource
	Progress    []model.ProgressItem
}

// FallbackPlan 不依赖外部调用，相同输入总是得到相同结果
func FallbackPlan(a *model.Assessment) *GuidancePlan {
	lang := a.PrimaryLanguage()
	tier := ClassifyTier(a.ExperienceLevel)
	style := ClassifyStyle(a.LearningStyle)

	return &GuidancePlan{
		Content:     fallbackContent(a, lang, tier, style),
		CodeExample: fallbackSnippet(lang),
		Resources:   fallbackResources(lang),
		Progress: []model.ProgressItem{
			{Name: clipRunes(lang+" Basics", maxProgressNameLength), Percentage: 0},
			{Name: "Problem Solving", Percentage: 0},
			{Name: "Project Development", Percentage: 0},
		},
	}
}

func fallbackContent(a *model.Assessment, lang string, tier Tier, style LearningStyle) string {
	var b strings.Builder

	b.WriteString("# Your Personalized Learning Plan\n\n")
	fmt.Fprintf(&b, "Based on your assessment, your experience level is **%s** and your main goal is to **%s**. ",
		a.ExperienceLevel, a.LearningGoal)
	fmt.Fprintf(&b, "You prefer **%s** and can dedicate **%s** to learning. ", a.LearningStyle, a.TimeCommitment)
	fmt.Fprintf(&b, "The plan below uses **%s** as your primary language.\n\n", lang)

	b.WriteString("## Study Plan\n\n")
	b.WriteString(strings.ReplaceAll(tierPlans[tier], "{lang}", lang))
	b.WriteString("\n\n")

	b.WriteString("## Recommended Approach\n\n")
	b.WriteString(styleAdvice[style])
	b.WriteString("\n\n")

	b.WriteString("## Staying on Track\n\n")
	fmt.Fprintf(&b, "With **%s** available, split your time into short focused sessions and review what you built at the end of each week. ", a.TimeCommitment)
	b.WriteString("Track your progress on the dashboard and refresh your guidance whenever your goals change.")

	return b.String()
}

var tierPlans = map[Tier]string{
	TierBeginner: `### Weeks 1-2: Foundations
- Set up your {lang} development environment and run your first program
- Learn **variables**, **data types** and basic operators
- Practice writing small programs every day

### Weeks 3-4: Control Flow and Functions
- Master conditionals and loops
- Write reusable **functions** and understand scope
- Solve 2-3 beginner exercises per session

### Weeks 5-6: Data Structures
- Work with lists, arrays and dictionaries/objects
- Learn how to read and handle errors

### Weeks 7-8: Your First Project
1. Pick a small idea such as a to-do list or a quiz game
2. Break it into small tasks and build it step by step
3. Share your code and ask for feedback`,

	TierIntermediate: `### Weeks 1-2: Strengthen the Core
- Review advanced {lang} features and idioms
- Study common **data structures and algorithms**
- Start writing unit tests for your code

### Weeks 3-4: Working with Real Systems
- Use libraries and frameworks from the {lang} ecosystem
- Consume and build HTTP APIs
- Learn version control workflows with Git branches and pull requests

### Weeks 5-8: Build a Portfolio Project
1. Design a medium-sized application with a clear scope
2. Apply **clean code** principles and refactor regularly
3. Deploy it and write a short README explaining your design decisions`,

	TierAdvanced: `### Weeks 1-2: Deepen Your Expertise
- Explore {lang} internals, performance characteristics and memory behavior
- Study **design patterns** and architecture trade-offs

### Weeks 3-4: Scale and Reliability
- Learn profiling, benchmarking and optimization techniques
- Practice concurrency, caching and distributed system concepts
- Write thorough automated tests, including integration tests

### Weeks 5-8: Lead and Contribute
1. Contribute to an open-source {lang} project
2. Build a production-grade system with monitoring and CI/CD
3. Mentor others or write technical articles to consolidate your knowledge`,
}

var styleAdvice = map[LearningStyle]string{
	StyleVisual: `Since you learn best **visually**:
- Follow video tutorials and pause to code along
- Draw diagrams of program flow and data structures
- Use tools that visualize code execution step by step`,

	StyleReading: `Since you prefer **reading documentation and articles**:
- Make the official documentation your primary reference
- Read well-written open-source code and take notes
- Summarize each topic in your own words after studying it`,

	StyleInteractive: `Since you learn best **hands-on**:
- Start building right away and learn concepts as you need them
- Use interactive coding platforms and daily challenges
- Rebuild small versions of tools you already use`,

	StyleMixed: `A **mixed approach** works well for you:
- Combine short videos with documentation for each new concept
- Reinforce every topic with a small coding exercise
- Alternate between guided tutorials and independent projects`,
}

const jsSnippet = `// A simple JavaScript function example
function calculateTotal(items) {
  return items.reduce((total, item) => {
    return total + item.price * item.quantity;
  }, 0);
}

// Example usage
const cart = [
  { name: 'Laptop', price: 999, quantity: 1 },
  { name: 'Headphones', price: 99, quantity: 2 }
];

const total = calculateTotal(cart);
console.log(` + "`Total: $${total}`" + `); // Total: $1197`

const pythonSnippet = `# A simple Python function example
def calculate_total(items):
    return sum(item["price"] * item["quantity"] for item in items)


# Example usage
cart = [
    {"name": "Laptop", "price": 999, "quantity": 1},
    {"name": "Headphones", "price": 99, "quantity": 2},
]

total = calculate_total(cart)
print(f"Total: ${total}")  # Total: $1197`

const javaSnippet = `// A simple Java example
import java.util.List;

public class Cart {
    record Item(String name, double price, int quantity) {}

    static double calculateTotal(List<Item> items) {
        return items.stream()
                .mapToDouble(item -> item.price() * item.quantity())
                .sum();
    }

    public static void main(String[] args) {
        List<Item> cart = List.of(
                new Item("Laptop", 999, 1),
                new Item("Headphones", 99, 2));
        System.out.println("Total: $" + calculateTotal(cart)); // Total: $1197.0
    }
}`

func fallbackSnippet(lang string) *model.CodeExample {
	switch lang {
	case "JavaScript", "TypeScript":
		return &model.CodeExample{Title: lang + " Example", Code: jsSnippet, Language: strings.ToLower(lang)}
	case "Python":
		return &model.CodeExample{Title: "Python Example", Code: pythonSnippet, Language: "python"}
	case "Java":
		return &model.CodeExample{Title: "Java Example", Code: javaSnippet, Language: "java"}
	default:
		return &model.CodeExample{
			Title: lang + " Example",
			Code: fmt.Sprintf("// %s example\n// Start by writing a small program that reads input,\n"+
				"// processes it with a function and prints the result.\n"+
				"// Explore the official %s documentation for idiomatic examples.", lang, lang),
			Language: strings.ToLower(lang),
		}
	}
}

func strPtr(s string) *string { return &s }

func fallbackResources(lang string) []model.Resource {
	switch lang {
	case "JavaScript":
		return []model.Resource{
			{Type: model.ResourceCourse, Title: "JavaScript Fundamentals", Description: "A comprehensive guide to JavaScript basics and modern syntax",
				Level: strPtr("Beginner"), Duration: strPtr("12 hours"), Link: "https://javascript.info/"},
			{Type: model.ResourceVideo, Title: "JavaScript Crash Course", Description: "Video walkthrough of core JavaScript concepts",
				Level: strPtr("Beginner"), Duration: strPtr("1.5 hours"), Link: "https://www.youtube.com/results?search_query=javascript+crash+course"},
			{Type: model.ResourceDocumentation, Title: "MDN Web Docs", Description: "The definitive JavaScript reference and guides",
				Link: "https://developer.mozilla.org/en-US/docs/Web/JavaScript"},
			{Type: model.ResourceChallenge, Title: "JavaScript Algorithms and Data Structures", Description: "Practice problems to sharpen your JavaScript skills",
				Level: strPtr("Intermediate"), Duration: strPtr("30 hours"), Link: "https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures/"},
		}
	case "Python":
		return []model.Resource{
			{Type: model.ResourceCourse, Title: "Python for Everybody", Description: "A beginner-friendly introduction to programming with Python",
				Level: strPtr("Beginner"), Duration: strPtr("20 hours"), Link: "https://www.py4e.com/"},
			{Type: model.ResourceVideo, Title: "Python Tutorial for Beginners", Description: "Step-by-step video lessons covering Python essentials",
				Level: strPtr("Beginner"), Duration: strPtr("6 hours"), Link: "https://www.youtube.com/results?search_query=python+tutorial+for+beginners"},
			{Type: model.ResourceDocumentation, Title: "The Python Tutorial", Description: "The official Python documentation and tutorial",
				Link: "https://docs.python.org/3/tutorial/"},
			{Type: model.ResourceChallenge, Title: "Python Practice Problems", Description: "Exercises with mentoring to build fluency in Python",
				Level: strPtr("Intermediate"), Duration: strPtr("Self-paced"), Link: "https://exercism.org/tracks/python"},
		}
	case "Java":
		return []model.Resource{
			{Type: model.ResourceCourse, Title: "Java Programming MOOC", Description: "University course covering Java fundamentals and object-oriented programming",
				Level: strPtr("Beginner"), Duration: strPtr("40 hours"), Link: "https://java-programming.mooc.fi/"},
			{Type: model.ResourceVideo, Title: "Java Full Course", Description: "Video series on Java syntax, classes and collections",
				Level: strPtr("Beginner"), Duration: strPtr("10 hours"), Link: "https://www.youtube.com/results?search_query=java+full+course"},
			{Type: model.ResourceDocumentation, Title: "The Java Tutorials", Description: "Official Java tutorials and API documentation",
				Link: "https://docs.oracle.com/javase/tutorial/"},
			{Type: model.ResourceChallenge, Title: "Java Coding Challenges", Description: "Practice problems to strengthen your Java problem solving",
				Level: strPtr("Intermediate"), Duration: strPtr("Self-paced"), Link: "https://exercism.org/tracks/java"},
		}
	default:
		q := url.QueryEscape(lang)
		return []model.Resource{
			{Type: model.ResourceCourse, Title: lang + " Fundamentals Course", Description: "Learn the core concepts of " + lang + " from the ground up",
				Level: strPtr("Beginner"), Duration: strPtr("Self-paced"), Link: "https://www.coursera.org/search?query=" + q},
			{Type: model.ResourceVideo, Title: lang + " Tutorial for Beginners", Description: "Video lessons introducing " + lang,
				Level: strPtr("Beginner"), Duration: strPtr("Varies"), Link: "https://www.youtube.com/results?search_query=" + q + "+tutorial"},
			{Type: model.ResourceDocumentation, Title: "Official " + lang + " Documentation", Description: "Reference documentation and guides for " + lang,
				Link: "https://devdocs.io/#q=" + q},
			{Type: model.ResourceChallenge, Title: lang + " Coding Challenges", Description: "Practice exercises to build fluency in " + lang,
				Level: strPtr("Intermediate"), Duration: strPtr("Self-paced"), Link: "https://exercism.org/tracks/" + url.PathEscape(strings.ToLower(lang))},
		}
	}
}

// 与 progress.name 列宽一致
const maxProgressNameLength = 191

func clipRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
