package database

import (
	"codementor_backend/internal/model"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DemoUsername = "demo"
	DemoPassword = "password123!"
)

func strPtr(s string) *string { return &s }

// SeedDemo 创建演示用户及其问卷、指导、资源和进度，已存在的数据不会重复创建
func SeedDemo(db *gorm.DB) (uint, error) {
	var user model.User
	err := db.Where("username = ?", DemoUsername).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return 0, err
		}
		user = model.User{Username: DemoUsername, Password: string(hashed)}
		if err := db.Create(&user).Error; err != nil {
			return 0, err
		}
		log.Printf("Created demo user with id %d", user.ID)
	} else if err != nil {
		return 0, err
	}

	var count int64
	db.Model(&model.Assessment{}).Where("user_id = ?", user.ID).Count(&count)
	if count == 0 {
		assessment := model.Assessment{
			UserID:          user.ID,
			ExperienceLevel: "Intermediate (comfortable with basics, learning more complex concepts)",
			Languages:       datatypes.JSONSlice[string]{"JavaScript", "HTML", "CSS", "Python"},
			LearningGoal:    "Build web applications",
			GoalDetails:     strPtr("I want to become a full-stack developer focusing on JavaScript technologies"),
			LearningStyle:   "Building projects (hands-on approach)",
			TimeCommitment:  "10-15 hours per week",
		}
		if err := db.Create(&assessment).Error; err != nil {
			return 0, err
		}
	}

	db.Model(&model.Guidance{}).Where("user_id = ?", user.ID).Count(&count)
	if count == 0 {
		guidance := model.Guidance{
			UserID: user.ID,
			Content: "Based on your assessment, I recommend starting with **JavaScript fundamentals** to build a solid foundation for web development.\n\n" +
				"Your goal of becoming a full-stack developer will require knowledge of both front-end and back-end technologies. Here's what I suggest:\n\n" +
				"- Focus on JavaScript fundamentals for 2-3 weeks (variables, functions, arrays, objects)\n" +
				"- Then move to DOM manipulation and basic front-end concepts\n" +
				"- Gradually introduce React.js for building user interfaces\n" +
				"- Later, explore Node.js for back-end development\n\n" +
				"Given your time commitment of 10-15 hours per week, this approach will allow you to make steady progress while building practical skills.",
			CodeExample: datatypes.NewJSONType(&model.CodeExample{
				Title:    "JavaScript Example",
				Code:     "// A simple JavaScript function example\nfunction calculateTotal(items) {\n  return items.reduce((total, item) => {\n    return total + item.price * item.quantity;\n  }, 0);\n}\n\n// Example usage\nconst cart = [\n  { name: 'Laptop', price: 999, quantity: 1 },\n  { name: 'Headphones', price: 99, quantity: 2 }\n];\n\nconst total = calculateTotal(cart);\nconsole.log(`Total: $${total}`); // Total: $1197",
				Language: "javascript",
			}),
		}
		if err := db.Create(&guidance).Error; err != nil {
			return 0, err
		}
	}

	db.Model(&model.Resource{}).Where("user_id = ?", user.ID).Count(&count)
	if count == 0 {
		resources := []model.Resource{
			{
				UserID:      user.ID,
				Type:        model.ResourceCourse,
				Title:       "JavaScript Fundamentals",
				Description: "A comprehensive guide to JavaScript basics for beginners",
				Level:       strPtr("Beginner"),
				Duration:    strPtr("12 hours"),
				ImageURL:    strPtr("https://images.unsplash.com/photo-1587620962725-abab7fe55159?w=800&auto=format&fit=crop&q=60"),
				Link:        "https://javascript.info/",
			},
			{
				UserID:      user.ID,
				Type:        model.ResourceChallenge,
				Title:       "Array Manipulation",
				Description: "Practice transforming and filtering arrays with JavaScript",
				Level:       strPtr("Beginner"),
				Duration:    strPtr("45 minutes"),
				Link:        "https://coderbyte.com/",
			},
			{
				UserID:      user.ID,
				Type:        model.ResourceDocumentation,
				Title:       "MDN Web Docs, JavaScript.info, React Documentation",
				Description: "Comprehensive JavaScript reference, Modern JavaScript tutorial, Official React.js guides and API",
				Link:        "https://developer.mozilla.org/",
			},
		}
		if err := db.Create(&resources).Error; err != nil {
			return 0, err
		}
	}

	db.Model(&model.ProgressItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count == 0 {
		items := []model.ProgressItem{
			{UserID: user.ID, Name: "JavaScript Fundamentals", Percentage: 62},
			{UserID: user.ID, Name: "DOM Manipulation", Percentage: 28},
			{UserID: user.ID, Name: "React Basics", Percentage: 10},
		}
		if err := db.Create(&items).Error; err != nil {
			return 0, err
		}
	}

	return user.ID, nil
}
