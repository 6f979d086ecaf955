package app

import (
	"bytes"
	"fmt"
	"html/template"

	"study_plan_notifier/internal/domain/email"
)

const (
	subjectReminder       = "A gentle reminder about your study plan"
	subjectPlanCreation   = "Your new study plan has been created!"
	subjectPlanCompletion = "Congratulations! You've completed a study plan!"
)

var reminderTmpl = template.Must(template.New("reminder").Parse(`
<h2>Hi {{.Name}},</h2>
<p>This is a friendly reminder to get back to your study plan for <strong>{{.Subjects}}</strong>.
It looks like you are {{.DaysBehind}} {{if eq .DaysBehind 1}}day{{else}}days{{end}} behind schedule.</p>
<p>Consistency is key to success. Don't lose your momentum! You can pick up right where you left off.</p>
<p>Happy studying!</p>
<p><strong>The Study Planner Team</strong></p>
`))

var planCreationTmpl = template.Must(template.New("plan_creation").Parse(`
<h2>Hi {{.Name}},</h2>
<p>Great job taking the first step! Your new personalized study plan for <strong>{{.Subjects}}</strong> has been successfully created.</p>
<h3>Plan Overview:</h3>
<ul>
  <li><strong>Subjects:</strong> {{.Subjects}}</li>
  <li><strong>Total Duration:</strong> {{.StudyDurationDays}} days</li>
  <li><strong>Daily Goal:</strong> {{.DailyStudyHours}} hours</li>
</ul>
<p>You can view and start tracking your progress by logging into the app.</p>
<p>Happy studying!</p>
<p><strong>The Study Planner Team</strong></p>
`))

var planCompletionTmpl = template.Must(template.New("plan_completion").Parse(`
<h2>Congratulations, {{.Name}}!</h2>
<p>Incredible work! You have successfully completed your study plan for <strong>{{.Subjects}}</strong>.</p>
<p>This is a huge accomplishment. Don't forget to check out the <strong>Analytics</strong> page in the app to see a detailed reflection on your performance and insights for your next plan.</p>
<p>Keep up the amazing momentum!</p>
<p><strong>The Study Planner Team</strong></p>
`))

type reminderView struct {
	Name       string
	Subjects   string
	DaysBehind int
}

type planView struct {
	Name              string
	Subjects          string
	StudyDurationDays int
	DailyStudyHours   float64
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func reminderMessage(toAddress string, v reminderView) (email.Message, error) {
	body, err := render(reminderTmpl, v)
	if err != nil {
		return email.Message{}, err
	}
	return email.Message{
		ToAddress: toAddress,
		ToName:    v.Name,
		Subject:   subjectReminder,
		HTMLBody:  body,
		PlainBody: fmt.Sprintf("Hi %s, you are %d day(s) behind on your study plan for %s.", v.Name, v.DaysBehind, v.Subjects),
	}, nil
}

func planCreationMessage(toAddress string, v planView) (email.Message, error) {
	body, err := render(planCreationTmpl, v)
	if err != nil {
		return email.Message{}, err
	}
	return email.Message{
		ToAddress: toAddress,
		ToName:    v.Name,
		Subject:   subjectPlanCreation,
		HTMLBody:  body,
		PlainBody: fmt.Sprintf("Hi %s, your study plan for %s has been created.", v.Name, v.Subjects),
	}, nil
}

func planCompletionMessage(toAddress string, v planView) (email.Message, error) {
	body, err := render(planCompletionTmpl, v)
	if err != nil {
		return email.Message{}, err
	}
	return email.Message{
		ToAddress: toAddress,
		ToName:    v.Name,
		Subject:   subjectPlanCompletion,
		HTMLBody:  body,
		PlainBody: fmt.Sprintf("Congratulations %s, you completed your study plan for %s.", v.Name, v.Subjects),
	}, nil
}
