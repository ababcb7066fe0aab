package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nihalsingh571/internrecom/internal/database"
)

type QuestionsSeeder struct{}

func (QuestionsSeeder) Name() string { return "questions" }

type seedQuestion struct {
	Text          string
	Options       []string
	CorrectOption int
}

var questionBank = map[string][]seedQuestion{
	"Python": {
		{
			Text:          "What is the output of print(type([]))?",
			Options:       []string{"<class 'list'>", "<class 'tuple'>", "<class 'dict'>", "<class 'set'>"},
			CorrectOption: 0,
		},
		{
			Text:          "Which method is used to remove whitespace from the beginning and end of a string?",
			Options:       []string{"strip()", "trim()", "clean()", "cut()"},
			CorrectOption: 0,
		},
		{
			Text:          "How do you start a for loop in Python?",
			Options:       []string{"for x in y:", "for x in y", "foreach x in y", "loop x in y"},
			CorrectOption: 0,
		},
		{
			Text:          "What is the correct file extension for Python files?",
			Options:       []string{".pt", ".pyth", ".py", ".pyt"},
			CorrectOption: 2,
		},
		{
			Text:          "Which keyword is used to create a function in Python?",
			Options:       []string{"function", "def", "fun", "define"},
			CorrectOption: 1,
		},
	},
	"Django": {
		{
			Text:          "Which file is used to configure database settings in Django?",
			Options:       []string{"models.py", "views.py", "settings.py", "urls.py"},
			CorrectOption: 2,
		},
		{
			Text:          "What is the command to run the development server?",
			Options:       []string{"python manage.py run", "python manage.py start", "python manage.py runserver", "python server"},
			CorrectOption: 2,
		},
		{
			Text:          "Which class is commonly used for creating database models?",
			Options:       []string{"models.Model", "db.Model", "django.Db", "Model.Base"},
			CorrectOption: 0,
		},
		{
			Text:          "What is used to map URLs to views?",
			Options:       []string{"Router", "Mapper", "URLConf", "Controller"},
			CorrectOption: 2,
		},
		{
			Text:          "Which template tag is used to loop over a list?",
			Options:       []string{"{% loop %}", "{% for %}", "{{ for }}", "[% for %]"},
			CorrectOption: 1,
		},
	},
	"React": {
		{
			Text:          "What is the correct hook to manage state in a functional component?",
			Options:       []string{"useState", "useEffect", "useContext", "useReducer"},
			CorrectOption: 0,
		},
		{
			Text:          "What is JSX?",
			Options:       []string{"JavaScript XML", "Java Syntax Extension", "JSON Xylophone", "JavaScript Extension"},
			CorrectOption: 0,
		},
		{
			Text:          "How do you pass data to a child component?",
			Options:       []string{"State", "Props", "Context", "Redux"},
			CorrectOption: 1,
		},
		{
			Text:          "Which method is used to render React content into the DOM?",
			Options:       []string{"ReactDOM.render()", "React.render()", "DOM.render()", "Render.view()"},
			CorrectOption: 0,
		},
		{
			Text:          "What prevents a default action in an event handler?",
			Options:       []string{"stopDefault()", "preventDefault()", "halt()", "cancel()"},
			CorrectOption: 1,
		},
	},
}

func (QuestionsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "questions", "id", "skill_id", "text", "options", "correct_option"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for skillName, questions := range questionBank {
		for _, q := range questions {
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("marshal options: %w", err)
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO questions (id, skill_id, text, options, correct_option)
				 SELECT gen_random_uuid(), s.id, $2, $3::jsonb, $4
				 FROM skills s
				 WHERE s.name = $1
				   AND NOT EXISTS (SELECT 1 FROM questions q WHERE q.text = $2)`,
				skillName,
				q.Text,
				opts,
				q.CorrectOption,
			); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
