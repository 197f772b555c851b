package web

// indexPage is the whole UI. The API key stays in the form and travels
// only inside the submit request; it is never stored client- or
// server-side.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Koyl - Nutrition Advisor</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { color: #667eea; }
  label { display: block; margin-top: 1rem; font-weight: 600; }
  input { width: 100%; padding: .5rem; margin-top: .25rem; border: 1px solid #ccc; border-radius: 6px; box-sizing: border-box; }
  button { margin-top: 1.25rem; padding: .6rem 1.5rem; border: none; border-radius: 6px; background: #667eea; color: #fff; font-size: 1rem; cursor: pointer; }
  button:disabled { opacity: .5; }
  #error { color: #b00020; margin-top: 1rem; white-space: pre-wrap; }
  #result { margin-top: 1.5rem; padding: 1rem; border: 1px solid #e1e8ed; border-radius: 8px; background: #f8f9ff; white-space: pre-wrap; display: none; }
  footer { margin-top: 2rem; font-size: .8rem; color: #666; }
</style>
</head>
<body>
<h1>Koyl Nutrition Advisor</h1>
<p>Personalized dietary recommendations grounded in medical literature.</p>
<form id="form">
  <label for="api_key">Groq API key</label>
  <input type="password" id="api_key" placeholder="gsk_..." autocomplete="off">
  <label for="condition">Patient conditions</label>
  <input type="text" id="condition" placeholder="e.g., high blood pressure, diabetes">
  <label for="allergies">Allergy profile</label>
  <input type="text" id="allergies" placeholder="e.g., dairy, gluten, nuts">
  <button id="submit" type="submit">Get dietary recommendations</button>
</form>
<div id="error"></div>
<div id="result"></div>
<footer>AI-generated from medical literature. Always consult a healthcare professional before significant dietary changes.</footer>
<script>
const form = document.getElementById('form');
const button = document.getElementById('submit');
const errorBox = document.getElementById('error');
const resultBox = document.getElementById('result');
form.addEventListener('submit', async (e) => {
  e.preventDefault();
  errorBox.textContent = '';
  resultBox.style.display = 'none';
  button.disabled = true;
  try {
    const resp = await fetch('/api/recommend', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({
        api_key: document.getElementById('api_key').value,
        condition: document.getElementById('condition').value,
        allergies: document.getElementById('allergies').value,
      }),
    });
    const data = await resp.json();
    if (!resp.ok) {
      errorBox.textContent = data.error || 'request failed';
      return;
    }
    resultBox.textContent = data.recommendation;
    resultBox.style.display = 'block';
  } catch (err) {
    errorBox.textContent = String(err);
  } finally {
    button.disabled = false;
  }
});
</script>
</body>
</html>
`
